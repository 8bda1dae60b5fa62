package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/refrigerant-blend/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddress string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the optimizer over an HTTP JSON API",
	Long: `Start an HTTP server exposing POST /api/optimize and GET /api/version.
The listen address comes from the server section of the config file and may
be overridden with --address.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address override (e.g. :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	address := conf.ServerAddress()
	if serveAddress != "" {
		address = serveAddress
	}

	handler, err := server.NewHandler(logger, tables, conf.ServerMaxBodyBytes(), Version)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         address,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	logger.Info("starting HTTP server",
		zap.String("op", "serve"),
		zap.String("address", address),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
