// Package config provides configuration structures and utilities for column2pdf.
// It defines the listing to crawl, the collector's pacing and retry budget,
// the export settings, and the optional .column2pdf YAML file with named
// site profiles.
package config
