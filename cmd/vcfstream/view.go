package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/variantkit/vcfstream/internal/vcf"
)

// viewBatchSize bounds how many records are held in memory while printing.
const viewBatchSize = 1000

func newViewCmd() *cobra.Command {
	var max int

	cmd := &cobra.Command{
		Use:   "view <file.vcf>",
		Short: "Print records as tab-delimited text",
		Args:  cobra.ExactArgs(1),
		Example: `  vcfstream view input.vcf
  vcfstream view -n 10 input.vcf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], max, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&max, "max", "n", 0, "maximum records to print (0 = all)")

	return cmd
}

func runView(path string, max int, out io.Writer) error {
	h, err := vcf.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()
	h.SetLogger(logger)

	w := bufio.NewWriter(out)
	defer w.Flush()

	printed := 0
	for max == 0 || printed < max {
		batch := viewBatchSize
		if max > 0 && max-printed < batch {
			batch = max - printed
		}

		records, err := h.Take(batch)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			break
		}

		for _, r := range records {
			if _, err := fmt.Fprintln(w, formatRecord(r, h.Header().SampleNames)); err != nil {
				return err
			}
		}
		printed += len(records)
	}

	return nil
}

// formatRecord renders a record for display, restoring the "." sentinel
// for absent values. Genotype columns follow the header's sample order.
func formatRecord(r *vcf.Record, samples []string) string {
	fields := []string{
		r.Chrom,
		strconv.FormatInt(r.Pos, 10),
		orDot(strings.Join(r.IDs, ";")),
		r.Ref,
		r.Alt,
		formatQual(r.Qual),
		formatFilters(r.Filt),
		orDot(formatInfo(r.Info)),
	}

	if r.Format != nil {
		fields = append(fields, strings.Join(r.Format, ":"))
		for _, name := range samples {
			fields = append(fields, r.Genotypes[name])
		}
	}

	return strings.Join(fields, "\t")
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func formatQual(q vcf.Quality) string {
	if !q.Present {
		return "."
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64)
}

func formatFilters(f vcf.Filters) string {
	if f.Pass {
		return "PASS"
	}
	return strings.Join(f.Fail, ";")
}

func formatInfo(info map[string]string) string {
	parts := make([]string, 0, len(info))
	for _, k := range sortedKeys(info) {
		if v := info[k]; v == "" {
			parts = append(parts, k)
		} else {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, ";")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
