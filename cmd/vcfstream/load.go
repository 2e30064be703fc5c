package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/variantkit/vcfstream/internal/duckdb"
	"github.com/variantkit/vcfstream/internal/vcf"
)

func newLoadCmd() *cobra.Command {
	var (
		dbPath string
		batch  int
	)

	cmd := &cobra.Command{
		Use:   "load <file.vcf>",
		Short: "Stream records into a DuckDB database",
		Long:  "Load reads records in bounded batches and appends them to a DuckDB database, so arbitrarily large files can be ingested in constant memory.",
		Args:  cobra.ExactArgs(1),
		Example: `  vcfstream load input.vcf
  vcfstream load --db variants.duckdb --batch 5000 input.vcf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = viper.GetString("load.db")
			}
			if batch == 0 {
				batch = viper.GetInt("load.batch_size")
			}
			return runLoad(args[0], dbPath, batch, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path (default from config: load.db)")
	cmd.Flags().IntVar(&batch, "batch", 0, "records per batch (default from config: load.batch_size)")

	return cmd
}

func runLoad(path, dbPath string, batch int, out io.Writer) error {
	h, err := vcf.Open(path)
	if err != nil {
		return err
	}
	defer h.Close()
	h.SetLogger(logger)

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("loading records",
		zap.String("input", path),
		zap.String("db", dbPath),
		zap.Int("batch", batch))

	total, err := store.LoadAll(h, path, batch, logger)
	if err != nil {
		return err
	}

	fp, err := duckdb.StatFile(path)
	if err != nil {
		return fmt.Errorf("fingerprint source: %w", err)
	}
	if err := store.RecordSource(fp, total); err != nil {
		return fmt.Errorf("record source: %w", err)
	}

	fmt.Fprintf(out, "Loaded %d records from %s into %s\n", total, path, dbPath)
	return nil
}
