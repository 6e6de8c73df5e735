package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dirscan/internal/routes"
	"dirscan/internal/services"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan HTTP and WebSocket API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Auth.Enabled {
			if _, err := services.InitAuthService(cfg.Auth.Secret, cfg.Auth.TokenExpiry); err != nil {
				return fmt.Errorf("failed to initialize auth: %w", err)
			}
		} else {
			log.Printf("[AUTH] Warning: token authentication is disabled")
		}

		hub := services.InitWebSocketHub()
		defer hub.Stop()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           routes.NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("[HTTP] Listening on %s", cfg.Server.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Printf("[HTTP] Shutting down")
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
