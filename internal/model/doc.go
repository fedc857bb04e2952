// Package model defines the data structures shared by the collector,
// the export pipeline, the history database and the report writers.
//
// This package contains the following main types:
//   - URLSet: the ordered, de-duplicated set of discovered article URLs
//   - Cursor: progress through a paginated listing
//   - CrawlResult: what a collection run produced and why it stopped
//   - Article / ExportResult: per-URL export state and outcome
//   - HarvestReport: the summary printed at the end of a command
//
// Keeping these types here avoids import cycles between collector,
// pipeline, database and report.
package model
