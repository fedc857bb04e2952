// Package main provides the entry point for the column2pdf CLI.
//
// column2pdf walks the paginated article listing of a blog column in a real
// browser, stores the discovered article URLs, and prints every article to
// a PDF file.
//
// Usage:
//
//	column2pdf collect
//	column2pdf export
//	column2pdf run
//
// See --help for all available options.
package main

// main is the entry point for column2pdf.
func main() {
	Execute()
}
