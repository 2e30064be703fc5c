package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineSource reads a file line by line, tracking the current line number.
// It carries no VCF semantics; the header and record parsers drive it.
type LineSource struct {
	reader *bufio.Reader
	file   *os.File
	line   int
}

// OpenLines opens a regular file for line-at-a-time reading.
func OpenLines(path string) (*LineSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat vcf file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("open vcf file: %s is not a regular file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	return &LineSource{
		reader: bufio.NewReader(file),
		file:   file,
	}, nil
}

// NewLineSource wraps an io.Reader, e.g. for tests or stdin.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{reader: bufio.NewReader(r)}
}

// Next returns the next line with the trailing newline stripped.
// Returns io.EOF when the source is drained.
func (s *LineSource) Next() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return "", io.EOF
			}
			// Final line without a trailing newline.
		} else {
			return "", fmt.Errorf("read line %d: %w", s.line+1, err)
		}
	}
	s.line++
	return strings.TrimRight(line, "\r\n"), nil
}

// Line returns the number of the most recently read line, 1-based.
func (s *LineSource) Line() int {
	return s.line
}

// Close releases the underlying file, if any.
func (s *LineSource) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
