package vcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord_WithGenotypes(t *testing.T) {
	line := "chr1\t100\t.\tA\tT\t50\tPASS\tDP=10\tGT\t0/1"

	r, err := parseRecord(line, []string{"S1"}, true, 10)
	require.NoError(t, err)

	assert.Equal(t, "chr1", r.Chrom)
	assert.Equal(t, int64(100), r.Pos)
	assert.Empty(t, r.IDs)
	assert.Equal(t, "A", r.Ref)
	assert.Equal(t, "T", r.Alt)
	assert.Equal(t, Quality{Value: 50, Present: true}, r.Qual)
	assert.Equal(t, Filters{Pass: true}, r.Filt)
	assert.Equal(t, map[string]string{"DP": "10"}, r.Info)
	assert.Equal(t, []string{"GT"}, r.Format)
	assert.Equal(t, map[string]string{"S1": "0/1"}, r.Genotypes)
}

func TestParseRecord_SitesOnly(t *testing.T) {
	line := "1\t1000\trs42\tC\tG,A\t99.9\tPASS\tDP=42;DB"

	r, err := parseRecord(line, nil, false, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"rs42"}, r.IDs)
	assert.Equal(t, "G,A", r.Alt, "alternate bases are kept verbatim")
	assert.Nil(t, r.Format)
	assert.Nil(t, r.Genotypes)
	assert.Equal(t, map[string]string{"DP": "42", "DB": ""}, r.Info)
}

func TestParseRecord_MissingSentinels(t *testing.T) {
	line := "chr1\t5\t.\tA\tT\t.\t.\t."

	r, err := parseRecord(line, nil, false, 1)
	require.NoError(t, err)

	assert.Empty(t, r.IDs)
	assert.False(t, r.Qual.Present)
	assert.True(t, r.Filt.Pass)
	assert.Empty(t, r.Filt.Fail)
	assert.Empty(t, r.Info)
}

func TestParseRecord_FailedFilters(t *testing.T) {
	line := "chr1\t5\t.\tA\tT\t9.5\tq10;s50\tDP=3"

	r, err := parseRecord(line, nil, false, 1)
	require.NoError(t, err)

	assert.False(t, r.Filt.Pass)
	assert.Equal(t, []string{"q10", "s50"}, r.Filt.Fail)
}

func TestParseRecord_MultipleIDsAndSamples(t *testing.T) {
	line := "chr1\t200\trs123;rs456\tG\tC\t.\tq10\tDP=8;AF=0.25\tGT:DP\t0/0:7\t0/1:9"

	r, err := parseRecord(line, []string{"S1", "S2"}, true, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"rs123", "rs456"}, r.IDs)
	assert.Equal(t, []string{"GT", "DP"}, r.Format)
	assert.Equal(t, map[string]string{"S1": "0/0:7", "S2": "0/1:9"}, r.Genotypes,
		"genotype strings stay raw; decoding against Format is the caller's job")
}

func TestParseRecord_SemicolonDelimitedIDs(t *testing.T) {
	line := "chr1\t5\trs1;rs2;rs3\tA\tT\t.\tPASS\tDP=1"

	r, err := parseRecord(line, nil, false, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"rs1", "rs2", "rs3"}, r.IDs)
}

func TestParseRecord_DuplicateInfoKeyLastWins(t *testing.T) {
	line := "chr1\t5\t.\tA\tT\t.\tPASS\tDP=3;DP=7"

	r, err := parseRecord(line, nil, false, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"DP": "7"}, r.Info)
}

func TestParseRecord_InvalidPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  string
	}{
		{"non-numeric", "abc"},
		{"empty sentinel", "."},
		{"zero", "0"},
		{"negative", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := "chr1\t" + tt.pos + "\t.\tA\tT\t.\t.\t."
			_, err := parseRecord(line, nil, false, 7)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 7, perr.Line)
			assert.Contains(t, perr.Message, "invalid position")
		})
	}
}

func TestParseRecord_InvalidPositionIsDeterministic(t *testing.T) {
	line := "chr1\tabc\t.\tA\tT\t.\t.\t."
	for i := 0; i < 3; i++ {
		_, err := parseRecord(line, nil, false, 7)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, perr.Message, "invalid position")
	}
}

func TestParseRecord_InvalidQuality(t *testing.T) {
	line := "chr1\t5\t.\tA\tT\thigh\t.\t."
	_, err := parseRecord(line, nil, false, 3)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "invalid quality score")
}

func TestParseRecord_ColumnCountMismatch(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		samples   []string
		hasFormat bool
	}{
		{"too few fixed columns", "chr1\t5\t.\tA\tT\t.\t.", nil, false},
		{"trailing extra column", "chr1\t5\t.\tA\tT\t.\t.\t.\textra", nil, false},
		{"missing sample column", "chr1\t5\t.\tA\tT\t.\t.\t.\tGT\t0/1", []string{"S1", "S2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRecord(tt.line, tt.samples, tt.hasFormat, 4)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Message, "columns")
			assert.Contains(t, perr.Message, tt.line, "error carries the offending line for diagnosis")
		})
	}
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 42, Message: "expected 8 columns, found 7"}
	assert.Equal(t, "vcf parse error at line 42: expected 8 columns, found 7", err.Error())
}
