package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variantkit/vcfstream/internal/vcf"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteRecords(t *testing.T) {
	s := openInMemory(t)

	records := []*vcf.Record{
		{
			Chrom: "chr1", Pos: 100, Ref: "A", Alt: "T",
			Qual: vcf.Quality{Value: 50, Present: true},
			Filt: vcf.Filters{Pass: true},
			Info: map[string]string{"DP": "10"},
		},
		{
			Chrom: "chr1", Pos: 200, IDs: []string{"rs123", "rs456"}, Ref: "G", Alt: "C",
			Filt:      vcf.Filters{Fail: []string{"q10", "s50"}},
			Info:      map[string]string{"DP": "8", "DB": ""},
			Format:    []string{"GT", "DP"},
			Genotypes: map[string]string{"S1": "0/0:7", "S2": "0/1:9"},
		},
		{
			Chrom: "chr2", Pos: 300, Ref: "TTA", Alt: "T",
			Qual: vcf.Quality{Value: 12.5, Present: true},
			Filt: vcf.Filters{Pass: true},
		},
	}

	require.NoError(t, s.WriteRecords("test.vcf", records))

	n, err := s.CountRecords("")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.CountRecords("test.vcf")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.CountRecords("other.vcf")
	require.NoError(t, err)
	assert.Zero(t, n)

	counts, err := s.CountByChrom()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"chr1": 2, "chr2": 1}, counts)

	pass, fail, err := s.CountPassFail()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pass)
	assert.Equal(t, int64(1), fail)
}

func TestWriteRecords_MissingQualStoredAsNull(t *testing.T) {
	s := openInMemory(t)

	records := []*vcf.Record{
		{Chrom: "chr1", Pos: 100, Ref: "A", Alt: "T", Filt: vcf.Filters{Pass: true}},
	}
	require.NoError(t, s.WriteRecords("test.vcf", records))

	var nulls int64
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM records WHERE qual IS NULL").Scan(&nulls))
	assert.Equal(t, int64(1), nulls)
}

func TestWriteRecords_Encoding(t *testing.T) {
	s := openInMemory(t)

	records := []*vcf.Record{
		{
			Chrom: "chr1", Pos: 200, IDs: []string{"rs1", "rs2"}, Ref: "G", Alt: "C",
			Filt:      vcf.Filters{Fail: []string{"q10"}},
			Info:      map[string]string{"DP": "8", "DB": "", "AF": "0.25"},
			Format:    []string{"GT", "DP"},
			Genotypes: map[string]string{"S2": "0/1:9", "S1": "0/0:7"},
		},
	}
	require.NoError(t, s.WriteRecords("test.vcf", records))

	var ids, filters, info, format, genotypes string
	require.NoError(t, s.DB().QueryRow(
		"SELECT ids, filters, info, format, genotypes FROM records").
		Scan(&ids, &filters, &info, &format, &genotypes))

	assert.Equal(t, "rs1;rs2", ids)
	assert.Equal(t, "q10", filters)
	assert.Equal(t, "AF=0.25;DB;DP=8", info)
	assert.Equal(t, "GT:DP", format)
	assert.Equal(t, "S1=0/0:7;S2=0/1:9", genotypes)
}

func TestLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.vcf")
	content := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t100\t.\tA\tT\t50\tPASS\tDP=10\n" +
		"1\t200\t.\tG\tC\t60\tPASS\tDP=12\n" +
		"2\t300\t.\tT\tA\t.\tq10\tDP=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	h, err := vcf.Open(path)
	require.NoError(t, err)
	defer h.Close()

	s := openInMemory(t)

	// Batch size smaller than the record count exercises multiple batches.
	total, err := s.LoadAll(h, path, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	n, err := s.CountRecords(path)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestLoadAll_InvalidBatchSize(t *testing.T) {
	s := openInMemory(t)
	_, err := s.LoadAll(nil, "x.vcf", 0, nil)
	assert.Error(t, err)
}

func TestRecordSource(t *testing.T) {
	s := openInMemory(t)

	fp := FileFingerprint{Path: "/data/a.vcf", Size: 1234, ModTime: time.Now().UTC()}
	require.NoError(t, s.RecordSource(fp, 42))

	// Re-recording the same path replaces the row.
	require.NoError(t, s.RecordSource(fp, 43))

	var count int64
	require.NoError(t, s.DB().QueryRow(
		"SELECT record_count FROM sources WHERE path = ?", fp.Path).Scan(&count))
	assert.Equal(t, int64(43), count)
}
