package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxFileNameBytes keeps generated names below the common 255 byte limit
// with room for the extension.
const maxFileNameBytes = 240

// unsafeFilenameChars maps characters that are invalid on at least one
// common filesystem, plus spaces, to underscores.
var unsafeFilenameChars = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// SanitizeFilename turns free text into a file name component.
//
// The text is NFKC folded first so that full-width punctuation common in
// Chinese titles (such as U+FF1A and U+3000) is caught by the replacement.
// Runs of whitespace collapse to one underscore and control characters are
// dropped.
func SanitizeFilename(name string) string {
	folded := norm.NFKC.String(name)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
	folded = strings.Join(strings.Fields(folded), " ")
	return unsafeFilenameChars.Replace(folded)
}

// ArticleFileName builds "{published} {title}.pdf", sanitized and
// truncated on a rune boundary when the title is very long.
func ArticleFileName(published, title string) string {
	base := SanitizeFilename(published + " " + title)
	return truncateBytes(base, maxFileNameBytes) + ".pdf"
}

// truncateBytes shortens s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
