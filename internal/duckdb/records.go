package duckdb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/variantkit/vcfstream/internal/vcf"
)

// WriteRecords batch-inserts records into DuckDB using the Appender API.
// source tags the rows with the file they came from.
func (s *Store) WriteRecords(source string, records []*vcf.Record) error {
	if len(records) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		var qual any
		if r.Qual.Present {
			qual = r.Qual.Value
		}
		if err := appender.AppendRow(
			source, r.Chrom, r.Pos,
			strings.Join(r.IDs, ";"), r.Ref, r.Alt,
			qual, r.Filt.Pass, strings.Join(r.Filt.Fail, ";"),
			encodeInfo(r.Info), strings.Join(r.Format, ":"), encodeGenotypes(r.Genotypes),
		); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	return appender.Flush()
}

// encodeInfo renders an INFO map back to semicolon-delimited KEY=VALUE
// text, keys sorted for stable output. Flag keys render bare.
func encodeInfo(info map[string]string) string {
	if len(info) == 0 {
		return ""
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := info[k]; v == "" {
			parts = append(parts, k)
		} else {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ";")
}

// encodeGenotypes renders sample genotypes as semicolon-delimited
// NAME=VALUE pairs, sample names sorted.
func encodeGenotypes(genotypes map[string]string) string {
	if len(genotypes) == 0 {
		return ""
	}
	names := make([]string, 0, len(genotypes))
	for n := range genotypes {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, n+"="+genotypes[n])
	}
	return strings.Join(parts, ";")
}

// LoadAll drains a reader into the store in bounded batches, returning
// the number of records written.
func (s *Store) LoadAll(r vcf.RecordReader, source string, batchSize int, logger *zap.Logger) (int, error) {
	if batchSize < 1 {
		return 0, errors.New("batch size must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	total := 0
	for {
		records, err := r.Take(batchSize)
		if err != nil {
			return total, fmt.Errorf("read batch: %w", err)
		}
		if len(records) == 0 {
			break
		}
		if err := s.WriteRecords(source, records); err != nil {
			return total, err
		}
		total += len(records)
		logger.Debug("wrote batch",
			zap.String("source", source),
			zap.Int("batch", len(records)),
			zap.Int("total", total))
	}

	return total, nil
}

// RecordSource upserts the fingerprint of an ingested file.
func (s *Store) RecordSource(fp FileFingerprint, recordCount int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sources (path, size, mod_time, record_count) VALUES (?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime, recordCount)
	return err
}

// CountRecords returns the number of stored records, optionally limited
// to one source file (empty string means all sources).
func (s *Store) CountRecords(source string) (int64, error) {
	query := "SELECT COUNT(*) FROM records"
	args := []any{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}

	var n int64
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// CountByChrom returns per-chromosome record counts.
func (s *Store) CountByChrom() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT chrom, COUNT(*) FROM records GROUP BY chrom`)
	if err != nil {
		return nil, fmt.Errorf("count by chrom: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var chrom string
		var n int64
		if err := rows.Scan(&chrom, &n); err != nil {
			return nil, fmt.Errorf("scan chrom count: %w", err)
		}
		counts[chrom] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chrom counts: %w", err)
	}
	return counts, nil
}

// CountPassFail returns how many stored records passed all filters and
// how many failed at least one.
func (s *Store) CountPassFail() (pass, fail int64, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*) FILTER (WHERE pass), COUNT(*) FILTER (WHERE NOT pass) FROM records`,
	).Scan(&pass, &fail)
	if err != nil {
		return 0, 0, fmt.Errorf("count pass/fail: %w", err)
	}
	return pass, fail, nil
}
