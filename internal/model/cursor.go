package model

// Cursor tracks progress through a paginated listing during one collection run.
type Cursor struct {
	// Page is the page number read from the listing's page indicator.
	// It is best effort and only used for logging; it defaults to 1.
	Page int `json:"page"`

	// Visits counts every pass over a listing page, including revisits
	// of the same page after a stagnant pass.
	Visits int `json:"visits"`

	// Stagnant counts consecutive visits that added no new URL.
	Stagnant int `json:"stagnant"`

	// ClickFailures counts consecutive failed attempts to reach the next page.
	ClickFailures int `json:"click_failures"`
}

// NewCursor returns a Cursor positioned on the first page.
func NewCursor() *Cursor {
	return &Cursor{Page: 1}
}

// RecordVisit updates the stagnation counter after a visit.
// grew reports whether the visit added at least one new URL.
func (c *Cursor) RecordVisit(grew bool) {
	c.Visits++
	if grew {
		c.Stagnant = 0
		return
	}
	c.Stagnant++
}

// RecordClickFailure increments the consecutive click failure counter.
func (c *Cursor) RecordClickFailure() {
	c.ClickFailures++
}

// RecordAdvance resets the click failure counter after a successful page advance.
func (c *Cursor) RecordAdvance() {
	c.ClickFailures = 0
}
