// Package names reads the newline-delimited "First Last" list that seeds
// the lab accounts.
package names

import (
	"bufio"  // bufio scans the input file one line at a time
	"errors" // errors lets us recognise fs.ErrNotExist behind os errors
	"fmt"    // fmt builds wrapped error messages
	"io/fs"  // fs holds the ErrNotExist sentinel
	"os"     // os opens the input file

	"golang.org/x/text/encoding/unicode" // unicode decodes UTF-8 and strips a leading BOM
	"golang.org/x/text/transform"        // transform applies the decoder while reading
)

// NotFoundError reports that the name list does not exist. It is the only
// fatal input error: the run stops before anything touches the directory.
type NotFoundError struct {
	Path string // Path is the file that was requested
}

// NewNotFoundError is an initializer function for NotFoundError.
func NewNotFoundError(path string) *NotFoundError {
	return &NotFoundError{Path: path}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file %q not found", e.Path)
}

// maxLineLength caps a single line of the name list. bufio's 64 KiB
// default is too small for files with no line breaks at all.
const maxLineLength = 4 * 1024 * 1024

// ReadLines returns every line of the file at path. Blank and malformed
// lines are kept; deciding what to do with them is the synthesizer's job.
// A leading UTF-8 byte order mark is dropped and CRLF endings are
// treated like LF. A missing file yields a *NotFoundError.
func ReadLines(path string) ([]string, error) {
	// Opening the file is the existence check: there is no separate stat.
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to open input file %q: %w", path, err)
	}
	// Ensure the file is closed when we are done.
	defer f.Close()

	// Windows editors often start the file with a BOM; BOMOverride strips
	// it so it never ends up inside the first account name.
	r := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		// ScanLines already drops the trailing \r of a CRLF ending.
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	return lines, nil
}
