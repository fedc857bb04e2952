// Package urllist reads and writes the newline-delimited article URL list
// that links the collect and export commands.
//
// The file holds one absolute URL per line in discovery order. Blank lines
// and surrounding whitespace are ignored on read.
package urllist
