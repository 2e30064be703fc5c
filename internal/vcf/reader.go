package vcf

// RecordReader is the interface consumed by code that drains records
// from a source without caring about the concrete Handle, such as the
// DuckDB loader.
type RecordReader interface {
	// Next reads the next record; ErrEndOfData signals exhaustion.
	Next() (*Record, error)

	// Take reads up to max records, stopping early at end of data.
	Take(max int) ([]*Record, error)

	// Close releases underlying resources.
	Close() error
}

var _ RecordReader = (*Handle)(nil)
