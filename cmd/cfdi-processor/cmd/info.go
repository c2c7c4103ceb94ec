package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/cfdi-processor/internal/model"
	"github.com/rezonia/cfdi-processor/internal/processor"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about CFDI files",
	Long: `Display information about CFDI files without printing the full model.

Shows:
  - File size and modification time
  - Detected attribute layout (4.0 or legacy)
  - Whether the document carries a TimbreFiscalDigital, and its UUID

Examples:
  cfdi-processor info factura.xml
  cfdi-processor info facturas/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	pipeline := newPipeline()
	for _, file := range files {
		printFileInfo(cmd, pipeline, file)
		fmt.Println()
	}

	return nil
}

func printFileInfo(cmd *cobra.Command, pipeline *processor.Pipeline, filePath string) {
	fmt.Printf("File: %s\n", filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Printf("  Error: %v\n", err)
		return
	}

	fmt.Printf("  Size: %d bytes\n", info.Size())
	fmt.Printf("  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("  Error reading file: %v\n", err)
		return
	}

	format := processor.DetectFormat(data)
	fmt.Printf("  Format: %s\n", strings.ToUpper(format.String()))
	if format != processor.FormatXML {
		return
	}

	version, err := pipeline.DetectVersion(data)
	if err != nil {
		fmt.Printf("  Layout: none (%v)\n", err)
		return
	}
	fmt.Printf("  Layout: %s\n", layoutName(version))

	result := pipeline.ProcessXMLBytes(cmd.Context(), data)
	if result.Error != nil {
		fmt.Printf("  Error: %v\n", result.Error)
		return
	}

	doc := result.Comprobante
	fmt.Printf("  Tipo: %s\n", doc.TipoDeComprobante)
	fmt.Printf("  Conceptos: %d\n", doc.Conceptos.Count)
	if uuid, ok := doc.UUID().Get(); ok {
		fmt.Printf("  Stamped: yes (UUID %s)\n", uuid)
	} else {
		fmt.Printf("  Stamped: no\n")
	}
}

func layoutName(v model.Version) string {
	switch v {
	case model.Version40:
		return "CFDI 4.0"
	case model.VersionLegacy:
		return "legacy (lowercase attributes)"
	default:
		return string(v)
	}
}
