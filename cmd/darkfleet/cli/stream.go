package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rawblock/darkfleet-engine/internal/api"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// NewStreamCommand runs the live pipeline: ingesting every configured
// source, detecting behavior, correlating SAR batches as they arrive,
// and serving the query/websocket API until interrupted.
func NewStreamCommand() *cobra.Command {
	var pollFallback time.Duration

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run the live AIS/SAR fusion pipeline and API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := bootstrap(configPath)
			if err != nil {
				return err
			}

			hub := api.NewHub()
			go hub.Run()
			engine.OnEvent(func(e model.Event) { hub.BroadcastJSON(e) })
			engine.OnAssessment(func(a model.Assessment) { hub.BroadcastJSON(a) })

			router := api.SetupRouter(engine.Store, engine.Sanctions, engine.Zones, engine.Alerts, hub, engine.Assessment)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go engine.Run(ctx, pollFallback)

			fmt.Printf("darkfleet streaming on %s\n", cfg.API.ListenAddr)
			srv := &http.Server{Addr: cfg.API.ListenAddr, Handler: router}
			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				srv.Shutdown(shutdownCtx)
			}()
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("api server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&pollFallback, "poll-fallback", 30*time.Second, "polling interval used when a source does not support streaming Subscribe")
	return cmd
}
