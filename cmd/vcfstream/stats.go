package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/variantkit/vcfstream/internal/vcf"
)

const statsBatchSize = 1000

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.vcf>",
		Short: "Summarize the header and records of a VCF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args[0], cmd.OutOrStdout())
		},
	}
}

func runStats(path string, out io.Writer) error {
	h, err := vcf.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()
	h.SetLogger(logger)

	header := h.Header()

	var total, pass, fail int
	byChrom := make(map[string]int)
	for {
		records, err := h.Take(statsBatchSize)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			break
		}
		for _, r := range records {
			total++
			byChrom[r.Chrom]++
			if r.Filt.Pass {
				pass++
			} else {
				fail++
			}
		}
	}

	fmt.Fprintf(out, "file format:    %s\n", header.FileFormat)
	fmt.Fprintf(out, "samples:        %d", len(header.SampleNames))
	if len(header.SampleNames) > 0 {
		fmt.Fprintf(out, " (%v)", header.SampleNames)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "INFO fields:    %s\n", joinSorted(infoIDs(header)))
	fmt.Fprintf(out, "FILTER fields:  %s\n", joinSorted(filterIDs(header)))
	fmt.Fprintf(out, "records:        %d (pass %d, fail %d)\n", total, pass, fail)

	chroms := make([]string, 0, len(byChrom))
	for c := range byChrom {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	for _, c := range chroms {
		fmt.Fprintf(out, "  %-12s %d\n", c, byChrom[c])
	}

	return nil
}

func infoIDs(h *vcf.Header) []string {
	ids := make([]string, 0, len(h.Infos))
	for id := range h.Infos {
		ids = append(ids, id)
	}
	return ids
}

func filterIDs(h *vcf.Header) []string {
	ids := make([]string, 0, len(h.Filters))
	for id := range h.Filters {
		ids = append(ids, id)
	}
	return ids
}

func joinSorted(ids []string) string {
	if len(ids) == 0 {
		return "(none)"
	}
	sort.Strings(ids)
	out := ids[0]
	for _, id := range ids[1:] {
		out += ", " + id
	}
	return out
}
