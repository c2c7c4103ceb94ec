package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/cfdi-processor/internal/processor"
)

const defaultTimeout = 2 * time.Minute

var (
	outputFile string
	timeout    time.Duration
)

var summaryCmd = &cobra.Command{
	Use:   "summary [files...]",
	Short: "Summarize CFDI documents",
	Long: `Extract the main data of one or more CFDI documents: issuer and receiver
RFC and name, subtotal, total, issue date, and the stamp UUID and date when
the document carries a TimbreFiscalDigital.

Examples:
  cfdi-processor summary factura.xml
  cfdi-processor summary *.xml -o resumen.json
  cfdi-processor summary facturas/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	summaryCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Processing timeout for the whole batch")
}

func newPipeline(opts ...processor.PipelineOption) *processor.Pipeline {
	base := []processor.PipelineOption{
		processor.WithLogger(log),
		processor.WithConcurrency(cfg.Processing.Concurrency),
	}
	return processor.NewPipeline(append(base, opts...)...)
}

// processArgs expands args to files and runs them through pipeline
func processArgs(ctx context.Context, pipeline *processor.Pipeline, args []string) ([]*processor.Result, error) {
	files, err := collectFiles(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to process")
	}

	printVerbose("Found %d files to process\n", len(files))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := pipeline.ProcessFiles(ctx, files)
	for _, r := range results {
		if r.Error != nil {
			printVerbose("%s: %v\n", r.Source, r.Error)
		} else {
			printVerbose("%s: layout %s (%s)\n", r.Source, r.Version, r.Duration)
		}
	}
	return results, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	results, err := processArgs(cmd.Context(), newPipeline(), args)
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeFn()

	return writeSummaries(w, outputFormat, toSummaries(results))
}
