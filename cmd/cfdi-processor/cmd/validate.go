package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/cfdi-processor/internal/processor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate CFDI documents",
	Long: `Parse one or more CFDI documents and run sanity checks on the values.

Checks performed:
  - Document decodes (required elements and attributes, numbers, dates)
  - RFC shape of issuer and receiver
  - TipoDeComprobante is in the SAT catalogue
  - Descuento does not exceed SubTotal, Total is not below SubTotal - Descuento
  - Document is stamped, stamp UUID is well formed
  - Stamp date is not before the issue date

Examples:
  cfdi-processor validate factura.xml
  cfdi-processor validate *.xml --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors (env: CFDI_PROCESSING_STRICT)")
	validateCmd.Flags().DurationVar(&timeout, "timeout", defaultTimeout, "Processing timeout for the whole batch")
	_ = v.BindPFlag("processing.strict", validateCmd.Flags().Lookup("strict"))
}

func runValidate(cmd *cobra.Command, args []string) error {
	pipeline := newPipeline(processor.WithValidation(cfg.Processing.Strict))
	results, err := processArgs(cmd.Context(), pipeline, args)
	if err != nil {
		return err
	}

	out := make([]*ValidationResult, 0, len(results))
	allValid := true
	for _, r := range results {
		vr := &ValidationResult{File: r.Source}
		if r.Error != nil {
			vr.Errors = []string{fmt.Sprintf("parse error: %v", r.Error)}
		} else {
			vr.Valid = r.Validation.Valid
			vr.UUID = r.Comprobante.UUID().OrElse("")
			vr.Errors, vr.Warnings = r.Validation.Messages()
		}
		if !vr.Valid {
			allValid = false
		}
		out = append(out, vr)
	}

	if outputFormat == "json" {
		if err := outputJSON(os.Stdout, out); err != nil {
			return err
		}
	} else {
		for _, r := range out {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			for _, w := range r.Warnings {
				fmt.Printf("  ⚠ %s\n", w)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}
