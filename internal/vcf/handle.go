package vcf

import (
	"go.uber.org/zap"
)

// Handle owns a parsed Header and a LineSource positioned at the first
// data line. A Handle is not safe for concurrent use; callers must
// serialize operations on it. Independent Handles are fully independent.
type Handle struct {
	header    *Header
	lines     *LineSource
	exhausted bool
	logger    *zap.Logger
}

// Open opens a VCF file and parses its header. A header parse failure
// fails Open as a whole; no Handle is returned without a valid Header.
func Open(path string) (*Handle, error) {
	lines, err := OpenLines(path)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(lines)
	if err != nil {
		lines.Close()
		return nil, err
	}

	return &Handle{
		header: header,
		lines:  lines,
		logger: zap.NewNop(),
	}, nil
}

// Header returns the parsed header. The header is immutable and safe to
// share read-only.
func (h *Handle) Header() *Header {
	return h.header
}

// SetLogger sets the logger for diagnostic messages.
func (h *Handle) SetLogger(l *zap.Logger) {
	h.logger = l
}

// Line returns the number of the most recently consumed line.
func (h *Handle) Line() int {
	return h.lines.Line()
}

// Close releases the underlying file.
func (h *Handle) Close() error {
	return h.lines.Close()
}
