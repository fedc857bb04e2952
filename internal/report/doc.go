// Package report renders harvest summaries and run history.
//
// Three formats are available:
//   - text for the terminal (default)
//   - Markdown for notes and issue trackers, built with nao1215/markdown
//   - JSON for scripts
//
// Every writer implements Writer and writes to an io.Writer supplied by
// the caller, usually stdout or the file named by --output.
package report
