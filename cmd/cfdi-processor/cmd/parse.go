package cmd

import (
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Decode CFDI documents into the full model",
	Long: `Decode one or more CFDI documents and print the complete Comprobante model
as JSON, including the opaque Conceptos subtree and any complements other
than the TimbreFiscalDigital.

Examples:
  cfdi-processor parse factura.xml
  cfdi-processor parse facturas/ -o modelo.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Processing timeout for the whole batch")
}

func runParse(cmd *cobra.Command, args []string) error {
	results, err := processArgs(cmd.Context(), newPipeline(), args)
	if err != nil {
		return err
	}

	out := make([]*ParseResult, 0, len(results))
	for _, r := range results {
		p := &ParseResult{File: r.Source}
		if r.Error != nil {
			p.Error = r.Error.Error()
		} else {
			p.Version = string(r.Version)
			p.Comprobante = r.Comprobante
		}
		out = append(out, p)
	}

	w, closeFn, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeFn()

	return outputJSON(w, out)
}
