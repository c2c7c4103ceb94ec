package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	money "github.com/rezonia/cfdi-processor/internal/decimal"
	"github.com/rezonia/cfdi-processor/internal/model"
	"github.com/rezonia/cfdi-processor/internal/processor"
)

// SummaryResult holds the summary of a single file
type SummaryResult struct {
	File    string                  `json:"file"`
	Version string                  `json:"version,omitempty"`
	Summary *model.DatosPrincipales `json:"summary,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// ParseResult holds the full model of a single file
type ParseResult struct {
	File        string             `json:"file"`
	Version     string             `json:"version,omitempty"`
	Comprobante *model.Comprobante `json:"comprobante,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	UUID     string   `json:"uuid,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func toSummaries(results []*processor.Result) []*SummaryResult {
	out := make([]*SummaryResult, 0, len(results))
	for _, r := range results {
		s := &SummaryResult{File: r.Source}
		if r.Error != nil {
			s.Error = r.Error.Error()
		} else {
			s.Version = string(r.Version)
			s.Summary = r.Datos
		}
		out = append(out, s)
	}
	return out
}

func writeSummaries(w io.Writer, format string, results []*SummaryResult) error {
	switch format {
	case "json":
		return outputJSON(w, results)
	case "table":
		return outputTable(w, results)
	case "csv":
		return outputCSV(w, results)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputTable(w io.Writer, results []*SummaryResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tEMISOR\tRECEPTOR\tFECHA\tSUBTOTAL\tTOTAL\tUUID")
	fmt.Fprintln(tw, "----\t------\t--------\t-----\t--------\t-----\t----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\t\n", r.File, r.Error)
			continue
		}

		d := r.Summary
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.File,
			d.EmisorRfc(),
			d.ReceptorRfc(),
			d.Fecha().Format("2006-01-02"),
			money.Format(d.SubTotal()),
			money.Format(d.Total()),
			d.UUID().OrElse("-"),
		)
	}

	return tw.Flush()
}

var csvHeader = []string{
	"file", "version", "emisor_rfc", "emisor_nombre", "receptor_rfc", "receptor_nombre",
	"fecha", "subtotal", "total", "uuid", "fecha_timbrado", "error",
}

func outputCSV(w io.Writer, results []*SummaryResult) error {
	if err := writeCSVRow(w, csvHeader); err != nil {
		return err
	}

	for _, r := range results {
		row := make([]string, len(csvHeader))
		row[0] = r.File

		if r.Error != "" {
			row[len(row)-1] = r.Error
		} else {
			d := r.Summary
			row[1] = r.Version
			row[2] = d.EmisorRfc()
			row[3] = d.EmisorNombre()
			row[4] = d.ReceptorRfc()
			row[5] = d.ReceptorNombre()
			row[6] = d.Fecha().Format(model.DateTimeLayout)
			row[7] = money.Format(d.SubTotal())
			row[8] = money.Format(d.Total())
			row[9] = d.UUID().OrElse("")
			if t, ok := d.FechaTimbrado().Get(); ok {
				row[10] = t.Format(model.DateTimeLayout)
			}
		}

		if err := writeCSVRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVRow(w io.Writer, fields []string) error {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeCSV(f)
	}
	_, err := fmt.Fprintln(w, strings.Join(escaped, ","))
	return err
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
