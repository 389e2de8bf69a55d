package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/foodscan/internal/app"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/infrastructure/httpapi"
)

// NewServeCommand creates the serve command
func NewServeCommand(container *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.ScanService == nil {
				return fmt.Errorf(ErrScanServiceUnavailable)
			}
			if container.ReviewService == nil {
				return fmt.Errorf(ErrReviewServiceUnavailable)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			router := httpapi.NewRouter(httpapi.Dependencies{
				Scans:   container.ScanService,
				Reviews: container.ReviewService,
				Metrics: container.MetricsHandler,
				Logger:  container.Logger,
			})
			server := &httpapi.Server{
				Addr:            addr,
				Handler:         router,
				Logger:          container.Logger,
				ShutdownTimeout: domain.DefaultShutdownTimeout,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (Ctrl+C to stop)\n", addr)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", container.Config.Server.Addr, "Listen address")
	return cmd
}
