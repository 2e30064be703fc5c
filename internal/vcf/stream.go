package vcf

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// Next reads the next record. It returns ErrEndOfData when the source is
// drained; once drained, every subsequent call returns ErrEndOfData
// again. A *ParseError from a malformed line consumes that line but
// leaves the handle usable for further reads.
func (h *Handle) Next() (*Record, error) {
	if h.exhausted {
		return nil, ErrEndOfData
	}

	for {
		line, err := h.lines.Next()
		if err != nil {
			if err == io.EOF {
				h.exhausted = true
				return nil, ErrEndOfData
			}
			return nil, err
		}
		if line == "" {
			continue // skip blank lines
		}

		rec, err := parseRecord(line, h.header.SampleNames, h.header.hasFormatColumn, h.lines.Line())
		if err != nil {
			h.logger.Warn("malformed record line",
				zap.Int("line", h.lines.Line()),
				zap.Error(err))
			return nil, err
		}
		return rec, nil
	}
}

// Take reads up to max records. It stops early at end of data and
// returns whatever was accumulated, possibly nothing; reaching the end
// is not an error. A parse error fails the whole call and discards any
// accumulated records. max == 0 returns immediately without consuming
// a line.
func (h *Handle) Take(max int) ([]*Record, error) {
	if max <= 0 {
		return []*Record{}, nil
	}
	records := make([]*Record, 0, min(max, 1024))
	for len(records) < max {
		rec, err := h.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfData) {
				break
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
