package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/bridge"
	"github.com/ziadkadry99/smartcalc/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP and websocket bridge",
	Long: `Starts a local server exposing the histories, notifications, theme and a
live websocket session, so a browser page can drive the same calculators.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hub := bridge.NewHub()
		a, err := openApp(
			app.WithHistoryListener(hub.HistoryChanged),
			app.WithStateListener(hub.StateChanged),
			app.WithQuickTableListener(hub.QuickTableChanged),
		)
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.Config.Server.AllowAll || serveAllowAll,
		}, a.Logger)
		bridge.New(a, hub).RegisterRoutes(srv.Router(), srv.Streams())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := a.Scientific.SyncAngleMode(ctx); err != nil {
			a.Logger.Warn("could not sync angle mode", "err", err)
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down bridge...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "smartcalc bridge %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Service: %s\n", a.Config.APIURL)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", a.DB.Path())

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8090, "port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serveCmd)
}
