// Package vcf provides streaming VCF file parsing.
package vcf

import (
	"errors"
	"fmt"
)

// ErrEndOfData signals that a handle has no more records. It is a
// terminal, expected outcome: once returned, every further read on the
// same handle returns it again. Check with errors.Is.
var ErrEndOfData = errors.New("vcf: end of data")

// ParseError represents a grammar violation with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
