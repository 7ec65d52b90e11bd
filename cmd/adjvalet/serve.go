// Serve command: the HTTP backend for the ADJ editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/events"
	"github.com/mesh-intelligence/adjvalet/internal/portfile"
	"github.com/mesh-intelligence/adjvalet/internal/server"
	"github.com/mesh-intelligence/adjvalet/internal/watch"
	"github.com/mesh-intelligence/adjvalet/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

var (
	flagHost  string
	flagPort  uint16
	flagWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend for the ADJ editor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			settings.Host = flagHost
		}
		if cmd.Flags().Changed("port") {
			settings.Port = flagPort
		}
		if cmd.Flags().Changed("watch") {
			settings.Watch = flagWatch
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := newLogger()
		defer func() { _ = log.Sync() }()
		return serve(ctx, log)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", defaultHost, "address to bind")
	serveCmd.Flags().Uint16Var(&flagPort, "port", defaultPort, "preferred port; the next free one is used when taken")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "reload when files under the ADJ directory change")
}

func serve(ctx context.Context, log *zap.Logger) error {
	pub, err := events.New(settings.NATSURL, log.Named("events"))
	if err != nil {
		log.Warn("change events disabled", zap.Error(err))
		pub = events.Nop{}
	}
	defer pub.Close()

	engine := newEngine(log)
	ws := workspace.New(engine,
		workspace.WithPublisher(pub),
		workspace.WithLogger(log.Named("workspace")),
	)

	root, err := resolveADJDir()
	if err != nil {
		return err
	}
	if root != "" {
		if _, _, err := ws.Open(ctx, root); err != nil {
			log.Warn("could not load ADJ directory; it stays selected", zap.String("path", root), zap.Error(err))
			ws.SetRoot(root)
		} else {
			log.Info("ADJ directory loaded", zap.String("path", root))
		}
	}

	port, err := portfile.FindAvailablePort(settings.Host, settings.Port, settings.MaxPortAttempts)
	if err != nil {
		return err
	}
	if port != settings.Port {
		log.Warn("preferred port is taken", zap.Uint16("preferred", settings.Port), zap.Uint16("port", port))
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if _, err := portfile.Write(engine.Store(), cwd, settings.PortFile, port, time.Now(), log.Named("portfile")); err != nil {
		log.Warn("port file not written", zap.Error(err))
	}

	if settings.Watch {
		if ws.Root() == "" {
			log.Warn("watch requested without an ADJ directory; not watching")
		} else {
			w := watch.New(ws.Root(), ws, watch.DefaultDebounce, log.Named("watch"))
			go func() {
				if err := w.Run(ctx); err != nil {
					log.Error("watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	srv := server.New(ws, log.Named("http"))
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(settings.Host, strconv.Itoa(int(port))),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("adjvalet listening", zap.String("addr", httpServer.Addr))
	for _, route := range server.Routes() {
		log.Info("route", zap.String("route", route))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
