// Package pipeline turns article URLs into PDF files.
//
// Each article passes through a fixed sequence of steps:
//
//	navigate -> cleanup -> metadata -> render -> save
//
// A step that fails stops the sequence for that article only. The Exporter
// drives the pipeline over a URL list, pausing between articles, and records
// one model.ExportResult per URL, optionally in a Ledger so that later runs
// can skip what was already saved.
//
// Browser access goes through the Renderer interface, which keeps the steps
// testable without a browser.
package pipeline
