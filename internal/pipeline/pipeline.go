package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/column2pdf/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps run in order; each one reads what earlier steps put into the
// article and adds its own part.
type Step interface {
	// Do executes the step for one article.
	// A returned error stops the pipeline for that article.
	Do(ctx context.Context, article *model.Article) error

	// Name returns the step's name for logs and export records.
	Name() string
}

// Pipeline runs a fixed list of steps against one article at a time.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence for article.
//
// Cancellation is checked before each step; steps handle their own
// timeouts. The first failing step ends the run and is returned as a
// *StepError so callers can record which step failed.
func (p *Pipeline) Execute(ctx context.Context, article *model.Article) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"url", article.URL,
				"reason", err,
			)
			return &StepError{Step: step.Name(), Err: err}
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", article.URL,
		)

		if err := step.Do(ctx, article); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"url", article.URL,
				"error", err,
			)
			return &StepError{Step: step.Name(), Err: err}
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
