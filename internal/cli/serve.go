package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/ticketlist/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen, seed, dbURL string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ticket retrieval endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}
			if file := strings.TrimSpace(app.Cfg.GetString("seed.file")); file != "" {
				n, err := importFile(cmd.Context(), store, file)
				if err != nil {
					return fmt.Errorf("seed %s: %w", file, err)
				}
				app.Log.Info("seeded store", "file", file, "tickets", n)
			}

			addr := app.Cfg.GetString("http_addr")
			if addr == "" {
				addr = ":3232"
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			srv := server.New(app.Cfg, store, app.Log)
			httpSrv := &http.Server{Handler: srv.Router(), ReadHeaderTimeout: 10 * time.Second}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving tickets on http://%s%s\n", ln.Addr(), srv.Path())
			return serveUntilDone(ctx, httpSrv, ln)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (override config http_addr)")
	cmd.Flags().StringVar(&seed, "seed", "", "JSON or NDJSON dataset to load before serving (override config seed.file)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "store url, mem:// or sqlite://path (override config db_url)")
	return cmd
}

// serveUntilDone runs httpSrv on ln and shuts it down when ctx ends.
func serveUntilDone(ctx context.Context, httpSrv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
