package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/cfdi-processor/internal/config"
	"github.com/rezonia/cfdi-processor/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string

	v   = config.New()
	cfg *config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "cfdi-processor",
	Short: "Parse and summarize Mexican CFDI e-invoices",
	Long: `CFDI Processor reads CFDI (Comprobante Fiscal Digital por Internet) XML
documents and extracts the issuer, receiver, amounts, date and the SAT stamp.

Supports:
  - CFDI 4.0 documents (Version="4.0", capitalized attributes)
  - Older documents with lowercase attributes (total, subtotal, formaDePago)

Configuration is read from cfdi.yaml (or --config) and CFDI_* environment
variables, e.g. CFDI_LOG_LEVEL=debug or CFDI_SERVER_ADDRESS=:9090.

Examples:
  # Summarize a single document
  cfdi-processor summary factura.xml

  # Summarize a directory as CSV
  cfdi-processor summary facturas/ -f csv -o resumen.csv

  # Full model as JSON
  cfdi-processor parse factura.xml

  # Validate documents
  cfdi-processor validate *.xml --strict`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command with ctx cancelled on shutdown signals
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	flags.StringVar(&configFile, "config", "", "Config file (default: ./cfdi.yaml if present)")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error (env: CFDI_LOG_LEVEL)")
	flags.String("log-format", "console", "Log format: console or json (env: CFDI_LOG_FORMAT)")
	flags.Int("concurrency", 4, "Documents processed in parallel (env: CFDI_PROCESSING_CONCURRENCY)")

	// Flags only win over file and env when set explicitly
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindPFlag("processing.concurrency", flags.Lookup("concurrency"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Level: level, Format: cfg.Log.Format}, os.Stderr)
	log.Debug().Str("config", v.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
