package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// missing is the VCF sentinel for an absent field value.
const missing = "."

// Quality is an optional Phred-scaled quality score. Records whose QUAL
// column holds the missing sentinel have Present == false.
type Quality struct {
	Value   float64
	Present bool
}

// Filters is the pass/fail status of a record. Exactly one of the two
// shapes holds: Pass is true and Fail is empty, or Pass is false and
// Fail lists the filters the record failed.
type Filters struct {
	Pass bool
	Fail []string
}

// Record is one decoded VCF data line. It is immutable once produced;
// the caller owns it outright.
type Record struct {
	Chrom string
	Pos   int64
	// IDs is empty when the ID column held the missing sentinel.
	IDs  []string
	Ref  string
	Alt  string
	Qual Quality
	Filt Filters
	// Info maps INFO keys to their raw, undecoded values. Flag keys map
	// to the empty string.
	Info map[string]string
	// Format is the ordered genotype field keys; nil when the file has
	// no genotype columns.
	Format []string
	// Genotypes maps each sample name to its raw colon-delimited value
	// string. Decoding against Format is left to the caller.
	Genotypes map[string]string
}

// parseRecord decodes one data line. sampleNames and hasFormat come from
// the column header; lineNum is used for error context only.
func parseRecord(line string, sampleNames []string, hasFormat bool, lineNum int) (*Record, error) {
	fields := strings.Split(line, "\t")

	want := 8
	if hasFormat {
		want = 9 + len(sampleNames)
	}
	if len(fields) != want {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("expected %d columns, found %d: %s", want, len(fields), line),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("invalid position: %q", fields[1]),
		}
	}

	qual, err := parseQuality(fields[5])
	if err != nil {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("invalid quality score: %q", fields[5]),
		}
	}

	r := &Record{
		Chrom: fields[0],
		Pos:   pos,
		IDs:   splitList(fields[2], ";"),
		Ref:   fields[3],
		Alt:   fields[4],
		Qual:  qual,
		Filt:  parseFilters(fields[6]),
		Info:  parseInfo(fields[7]),
	}

	if hasFormat {
		r.Format = strings.Split(fields[8], ":")
		r.Genotypes = make(map[string]string, len(sampleNames))
		for i, name := range sampleNames {
			r.Genotypes[name] = fields[9+i]
		}
	}

	return r, nil
}

// splitList splits a delimited field, mapping the missing sentinel to
// an empty slice.
func splitList(s, sep string) []string {
	if s == missing {
		return nil
	}
	return strings.Split(s, sep)
}

func parseQuality(s string) (Quality, error) {
	if s == missing {
		return Quality{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Quality{}, err
	}
	return Quality{Value: v, Present: true}, nil
}

// parseFilters decodes the FILTER column into a Pass/Fail value once,
// so downstream code never re-interprets the sentinels.
func parseFilters(s string) Filters {
	if s == missing || s == "PASS" {
		return Filters{Pass: true}
	}
	return Filters{Fail: strings.Split(s, ";")}
}

// parseInfo splits the INFO column into raw key/value pairs. Flag keys
// map to the empty string; duplicate keys keep the last occurrence.
func parseInfo(s string) map[string]string {
	result := make(map[string]string)
	if s == missing {
		return result
	}
	for _, kv := range strings.Split(s, ";") {
		key, value, _ := strings.Cut(kv, "=")
		result[key] = value
	}
	return result
}
