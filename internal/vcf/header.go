package vcf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FileFormat is the version declared by the mandatory ##fileformat line.
type FileFormat struct {
	Major int
	Minor int
}

func (f FileFormat) String() string {
	return fmt.Sprintf("VCFv%d.%d", f.Major, f.Minor)
}

// NumberKind classifies the cardinality of an INFO field.
type NumberKind int

const (
	// NumberCount is a fixed per-record value count.
	NumberCount NumberKind = iota
	// NumberAltAlleles is one value per alternate allele ("A").
	NumberAltAlleles
	// NumberAllAlleles is one value per allele including the reference ("R").
	NumberAllAlleles
	// NumberGenotypes is one value per possible genotype ("G").
	NumberGenotypes
	// NumberUnknown is an unspecified cardinality (".").
	NumberUnknown
)

// Number is the cardinality of an INFO field: either a fixed count or
// one of the symbolic classes.
type Number struct {
	Kind  NumberKind
	Count int // valid only when Kind == NumberCount
}

func (n Number) String() string {
	switch n.Kind {
	case NumberCount:
		return strconv.Itoa(n.Count)
	case NumberAltAlleles:
		return "A"
	case NumberAllAlleles:
		return "R"
	case NumberGenotypes:
		return "G"
	default:
		return "."
	}
}

// InfoType is the declared value type of an INFO field.
type InfoType string

const (
	TypeInteger   InfoType = "Integer"
	TypeFloat     InfoType = "Float"
	TypeFlag      InfoType = "Flag"
	TypeCharacter InfoType = "Character"
	TypeString    InfoType = "String"
)

// InfoDef is a ##INFO=<...> declaration.
type InfoDef struct {
	ID          string
	Number      Number
	Type        InfoType
	Description string
}

// FilterDef is a ##FILTER=<...> declaration.
type FilterDef struct {
	ID          string
	Description string
}

// Header holds the parsed VCF header. It is immutable once parsing
// completes and may be read freely by callers of the owning Handle.
type Header struct {
	FileFormat  FileFormat
	Infos       map[string]InfoDef
	Filters     map[string]FilterDef
	SampleNames []string
	// Meta holds the raw text of ## lines not modeled above
	// (contig, source, reference, and so on).
	Meta []string

	hasFormatColumn bool
}

// HasFormatColumn reports whether the column header declared a FORMAT
// column, and therefore whether data lines carry genotype columns.
func (h *Header) HasFormatColumn() bool {
	return h.hasFormatColumn
}

// parseHeader consumes metadata lines and the #CHROM column line from
// src, leaving the cursor at the first data line.
func parseHeader(src *LineSource) (*Header, error) {
	h := &Header{
		Infos:   make(map[string]InfoDef),
		Filters: make(map[string]FilterDef),
	}

	first := true
	for {
		line, err := src.Next()
		if err != nil {
			if err == io.EOF {
				if first {
					return nil, &ParseError{Line: src.Line(), Message: "missing or invalid fileformat declaration"}
				}
				return nil, &ParseError{Line: src.Line(), Message: "missing column header line"}
			}
			return nil, err
		}

		if first {
			if err := parseFileFormat(line, &h.FileFormat); err != nil {
				return nil, &ParseError{Line: src.Line(), Message: err.Error()}
			}
			first = false
			continue
		}

		switch {
		case strings.HasPrefix(line, "##INFO=<") && strings.HasSuffix(line, ">"):
			def, err := parseInfoDef(line[len("##INFO=<") : len(line)-1])
			if err != nil {
				return nil, &ParseError{Line: src.Line(), Message: err.Error()}
			}
			// Duplicate IDs: the last declaration wins.
			h.Infos[def.ID] = def
		case strings.HasPrefix(line, "##FILTER=<") && strings.HasSuffix(line, ">"):
			def, err := parseFilterDef(line[len("##FILTER=<") : len(line)-1])
			if err != nil {
				return nil, &ParseError{Line: src.Line(), Message: err.Error()}
			}
			h.Filters[def.ID] = def
		case strings.HasPrefix(line, "##"):
			h.Meta = append(h.Meta, line)
		case strings.HasPrefix(line, "#"):
			if err := parseColumnHeader(line, h); err != nil {
				return nil, &ParseError{Line: src.Line(), Message: err.Error()}
			}
			return h, nil
		default:
			return nil, &ParseError{Line: src.Line(), Message: "expected #CHROM header line before data"}
		}
	}
}

// parseFileFormat decodes the mandatory first line, ##fileformat=VCFvMAJOR.MINOR.
func parseFileFormat(line string, ff *FileFormat) error {
	const prefix = "##fileformat=VCFv"
	if !strings.HasPrefix(line, prefix) {
		return fmt.Errorf("missing or invalid fileformat declaration: %q", line)
	}
	version := line[len(prefix):]
	majorStr, minorStr, ok := strings.Cut(version, ".")
	if !ok {
		return fmt.Errorf("invalid fileformat version: %q", version)
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return fmt.Errorf("invalid fileformat major version: %q", majorStr)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return fmt.Errorf("invalid fileformat minor version: %q", minorStr)
	}
	ff.Major = major
	ff.Minor = minor
	return nil
}

// parseInfoDef decodes the body of a ##INFO=<...> line.
func parseInfoDef(body string) (InfoDef, error) {
	fields, err := splitStructured(body)
	if err != nil {
		return InfoDef{}, fmt.Errorf("malformed INFO declaration: %v", err)
	}

	for _, key := range []string{"ID", "Number", "Type", "Description"} {
		if _, ok := fields[key]; !ok {
			return InfoDef{}, fmt.Errorf("INFO declaration missing required key %s", key)
		}
	}

	number, err := parseNumber(fields["Number"])
	if err != nil {
		return InfoDef{}, err
	}

	var ty InfoType
	switch t := InfoType(fields["Type"]); t {
	case TypeInteger, TypeFloat, TypeFlag, TypeCharacter, TypeString:
		ty = t
	default:
		return InfoDef{}, fmt.Errorf("INFO declaration has unknown Type %q", fields["Type"])
	}

	return InfoDef{
		ID:          fields["ID"],
		Number:      number,
		Type:        ty,
		Description: fields["Description"],
	}, nil
}

// parseFilterDef decodes the body of a ##FILTER=<...> line.
func parseFilterDef(body string) (FilterDef, error) {
	fields, err := splitStructured(body)
	if err != nil {
		return FilterDef{}, fmt.Errorf("malformed FILTER declaration: %v", err)
	}

	for _, key := range []string{"ID", "Description"} {
		if _, ok := fields[key]; !ok {
			return FilterDef{}, fmt.Errorf("FILTER declaration missing required key %s", key)
		}
	}

	return FilterDef{
		ID:          fields["ID"],
		Description: fields["Description"],
	}, nil
}

func parseNumber(s string) (Number, error) {
	switch s {
	case "A":
		return Number{Kind: NumberAltAlleles}, nil
	case "R":
		return Number{Kind: NumberAllAlleles}, nil
	case "G":
		return Number{Kind: NumberGenotypes}, nil
	case ".":
		return Number{Kind: NumberUnknown}, nil
	}
	count, err := strconv.Atoi(s)
	if err != nil {
		return Number{}, fmt.Errorf("invalid Number %q", s)
	}
	return Number{Kind: NumberCount, Count: count}, nil
}

// splitStructured parses a comma-separated KEY=VALUE list where VALUE
// may be a double-quoted string containing escaped quotes or backslashes.
func splitStructured(body string) (map[string]string, error) {
	fields := make(map[string]string)
	i := 0
	for i < len(body) {
		eq := strings.IndexByte(body[i:], '=')
		if eq < 0 {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", body[i:])
		}
		key := body[i : i+eq]
		i += eq + 1

		var value string
		if i < len(body) && body[i] == '"' {
			var sb strings.Builder
			i++
			closed := false
			for i < len(body) {
				c := body[i]
				if c == '\\' && i+1 < len(body) {
					sb.WriteByte(body[i+1])
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				sb.WriteByte(c)
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quoted value for key %s", key)
			}
			value = sb.String()
		} else {
			end := strings.IndexByte(body[i:], ',')
			if end < 0 {
				end = len(body) - i
			}
			value = body[i : i+end]
			i += end
		}

		fields[key] = value

		if i < len(body) {
			if body[i] != ',' {
				return nil, fmt.Errorf("expected ',' after value for key %s", key)
			}
			i++
		}
	}
	return fields, nil
}

// parseColumnHeader decodes the single-# column line, capturing sample names.
func parseColumnHeader(line string, h *Header) error {
	cols := strings.Split(line, "\t")
	if cols[0] != "#CHROM" {
		return fmt.Errorf("expected #CHROM header line, got %q", cols[0])
	}
	if len(cols) < 8 {
		return fmt.Errorf("column header has %d columns, expected at least 8", len(cols))
	}
	if len(cols) > 8 {
		h.hasFormatColumn = true
		h.SampleNames = append([]string(nil), cols[9:]...)
	}
	return nil
}
