package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/cfdi-processor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for CFDI documents. Every POST endpoint takes the
raw XML document as the request body.

The API provides endpoints for:
  - POST /api/v1/parse     - Full Comprobante model
  - POST /api/v1/summary   - DatosPrincipales with uuid and fecha_timbrado
  - POST /api/v1/validate  - Sanity checks (?strict=true for strict mode)
  - POST /api/v1/info      - Layout and stamp information
  - GET  /health           - Health check

Examples:
  # Start server on default port
  cfdi-processor serve

  # Start on a custom address in debug mode
  cfdi-processor serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("address", ":8080", "Server listen address (env: CFDI_SERVER_ADDRESS)")
	flags.Bool("debug", false, "Enable debug mode (env: CFDI_SERVER_DEBUG)")
	flags.Duration("read-timeout", 0, "HTTP read timeout (env: CFDI_SERVER_READ_TIMEOUT)")
	flags.Duration("write-timeout", 0, "HTTP write timeout (env: CFDI_SERVER_WRITE_TIMEOUT)")

	_ = v.BindPFlag("server.address", flags.Lookup("address"))
	_ = v.BindPFlag("server.debug", flags.Lookup("debug"))
	_ = v.BindPFlag("server.read_timeout", flags.Lookup("read-timeout"))
	_ = v.BindPFlag("server.write_timeout", flags.Lookup("write-timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Strict:       cfg.Processing.Strict,
		Concurrency:  cfg.Processing.Concurrency,
		Debug:        cfg.Server.Debug,
	}

	return server.NewServer(config, log).Run(cmd.Context())
}
