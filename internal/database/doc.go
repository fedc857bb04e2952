// Package database provides SQLite-based run history for column2pdf.
//
// The HarvestDB stores:
//   - collection runs with how they ended
//   - the ordered URL list of every run
//   - the latest export outcome per article URL
//
// It uses modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles without a C toolchain. The database is a single file in
// the XDG data directory.
package database
