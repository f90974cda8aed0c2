package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/mortgage-calc/internal/lead"
	"github.com/iwvelando/mortgage-calc/internal/server"
	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newServeCmd() *cobra.Command {
	var serverConfigPath, address, maxBodySize string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON API with a web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}
			if maxBodySize != "" {
				size, err := server.ParseSize(maxBodySize)
				if err != nil {
					return fmt.Errorf("invalid --max-body-size: %w", err)
				}
				cfg.SetBodySizeBytes(size)
			}

			logger := a.logger
			if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
				logger, err = initializeLogger(cfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			handler, stop := a.buildHandler(logger, cfg)
			defer stop()

			listener, err := net.Listen("tcp", cfg.Address)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
			}

			ctx, cancel := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return server.Run(ctx, logger, listener, handler)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxBodySize, "max-body-size", "", "request body limit override, e.g. 512K")
	return cmd
}

// buildHandler wires the API handler with per-client rate limiting on /api/.
// The returned func stops the limiter.
func (a *app) buildHandler(logger *zap.Logger, cfg *server.Config) (http.Handler, func()) {
	api := server.NewHandler(logger, a.service, lead.NewLogSubmitter(logger), cfg.BodySizeBytes(), version)

	if cfg.RateLimit.Requests <= 0 {
		return api, func() {}
	}

	limiter := server.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimitWindow())
	mux := http.NewServeMux()
	mux.Handle("/api/", server.WithRateLimit(logger, limiter, api))
	mux.Handle("/", api)
	return mux, limiter.Stop
}

// contextOrBackground guards against commands executed without a context.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
