package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/column2pdf/internal/model"
)

// Step names, as recorded in ExportResult.FailedStep.
const (
	StepNavigate = "navigate"
	StepCleanup  = "cleanup"
	StepMetadata = "metadata"
	StepRender   = "render"
	StepSave     = "save"
)

// NavigateStep opens the article page.
type NavigateStep struct {
	renderer Renderer
	timeout  time.Duration
}

// NewNavigateStep creates a step that opens each article within timeout.
func NewNavigateStep(renderer Renderer, timeout time.Duration) *NavigateStep {
	return &NavigateStep{renderer: renderer, timeout: timeout}
}

// Do implements Step.
func (s *NavigateStep) Do(ctx context.Context, article *model.Article) error {
	return s.renderer.Open(ctx, article.URL, s.timeout)
}

// Name implements Step.
func (s *NavigateStep) Name() string { return StepNavigate }

// CleanupStep removes navigation bars, ads, comments and overlays so the
// printed page contains only the article.
type CleanupStep struct {
	renderer  Renderer
	selectors []string
}

// NewCleanupStep creates a step removing every element matching selectors.
func NewCleanupStep(renderer Renderer, selectors []string) *CleanupStep {
	return &CleanupStep{renderer: renderer, selectors: selectors}
}

// Do implements Step.
func (s *CleanupStep) Do(ctx context.Context, _ *model.Article) error {
	return s.renderer.RemoveElements(ctx, s.selectors)
}

// Name implements Step.
func (s *CleanupStep) Name() string { return StepCleanup }

// MetadataStep reads the headline and publish time from the page source.
type MetadataStep struct {
	renderer      Renderer
	titleSelector string
	timeSelector  string
	timeAttribute string
}

// NewMetadataStep creates a step that reads the title text from
// titleSelector and the publish time from timeAttribute of timeSelector.
func NewMetadataStep(renderer Renderer, titleSelector, timeSelector, timeAttribute string) *MetadataStep {
	return &MetadataStep{
		renderer:      renderer,
		titleSelector: titleSelector,
		timeSelector:  timeSelector,
		timeAttribute: timeAttribute,
	}
}

// Do implements Step.
func (s *MetadataStep) Do(ctx context.Context, article *model.Article) error {
	html, err := s.renderer.HTML(ctx)
	if err != nil {
		return err
	}
	article.HTML = html

	title, published, err := ExtractMetadata(html, s.titleSelector, s.timeSelector, s.timeAttribute)
	if err != nil {
		return err
	}
	article.Title = title
	article.Published = published
	return nil
}

// Name implements Step.
func (s *MetadataStep) Name() string { return StepMetadata }

// ExtractMetadata parses html and returns the trimmed text of the first
// titleSelector match and the timeAttribute of the first timeSelector match.
// A missing or blank value is reported as ErrMissingMetadata.
func ExtractMetadata(html, titleSelector, timeSelector, timeAttribute string) (title, published string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("parse article html: %w", err)
	}

	title = strings.Join(strings.Fields(doc.Find(titleSelector).First().Text()), " ")
	if title == "" {
		return "", "", fmt.Errorf("%w: no text in %q", ErrMissingMetadata, titleSelector)
	}

	published, _ = doc.Find(timeSelector).First().Attr(timeAttribute)
	published = strings.TrimSpace(published)
	if published == "" {
		return "", "", fmt.Errorf("%w: no %q attribute on %q", ErrMissingMetadata, timeAttribute, timeSelector)
	}

	return title, published, nil
}

// RenderStep prints the cleaned page.
type RenderStep struct {
	renderer Renderer
}

// NewRenderStep creates a step that prints the current page to PDF.
func NewRenderStep(renderer Renderer) *RenderStep {
	return &RenderStep{renderer: renderer}
}

// Do implements Step.
func (s *RenderStep) Do(ctx context.Context, article *model.Article) error {
	pdf, err := s.renderer.PrintPDF(ctx)
	if err != nil {
		return err
	}
	if len(pdf) == 0 {
		return ErrEmptyPDF
	}
	article.PDF = pdf
	return nil
}

// Name implements Step.
func (s *RenderStep) Name() string { return StepRender }

// SaveStep writes the PDF into the output directory.
// An existing file with the same name is overwritten.
type SaveStep struct {
	outputDir string
}

// NewSaveStep creates a step writing PDFs under outputDir.
func NewSaveStep(outputDir string) *SaveStep {
	return &SaveStep{outputDir: outputDir}
}

// Do implements Step.
func (s *SaveStep) Do(_ context.Context, article *model.Article) error {
	if s.outputDir == "" {
		return ErrNoOutputDir
	}
	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, ArticleFileName(article.Published, article.Title))
	if err := os.WriteFile(path, article.PDF, 0o644); err != nil { //nolint:gosec // PDFs are meant to be shared
		return fmt.Errorf("write %s: %w", path, err)
	}
	article.FilePath = path
	return nil
}

// Name implements Step.
func (s *SaveStep) Name() string { return StepSave }

// ArticleOptions configures the standard export pipeline.
type ArticleOptions struct {
	// Timeout bounds opening one article page.
	Timeout time.Duration

	// CleanupSelectors are removed before printing.
	CleanupSelectors []string

	// TitleSelector, TimeSelector and TimeAttribute locate the metadata
	// used for the file name.
	TitleSelector string
	TimeSelector  string
	TimeAttribute string

	// OutputDir receives the PDFs.
	OutputDir string
}

// NewArticlePipeline builds the navigate, cleanup, metadata, render and
// save steps in that order.
func NewArticlePipeline(renderer Renderer, opts ArticleOptions, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewNavigateStep(renderer, opts.Timeout),
		NewCleanupStep(renderer, opts.CleanupSelectors),
		NewMetadataStep(renderer, opts.TitleSelector, opts.TimeSelector, opts.TimeAttribute),
		NewRenderStep(renderer),
		NewSaveStep(opts.OutputDir),
	)
	return p
}
