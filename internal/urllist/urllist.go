package urllist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyPath is returned when no file path is given.
var ErrEmptyPath = errors.New("url list path is empty")

// Write stores urls at path, one per line, creating parent directories.
// An empty urls slice produces an empty file so that a run that found
// nothing still leaves a record behind.
func Write(path string, urls []string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the user's flags
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Encode(f, urls); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Encode writes urls to w, one per line.
func Encode(w io.Writer, urls []string) error {
	bw := bufio.NewWriter(w)
	for _, u := range urls {
		if _, err := bw.WriteString(u); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read loads the URL list at path.
func Read(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path) //nolint:gosec // path comes from the user's flags
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	urls, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return urls, nil
}

// Decode parses a URL list from r, trimming lines and skipping blanks
// and lines starting with '#'.
func Decode(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
