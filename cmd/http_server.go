package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/core/events"
	"github.com/frahmantamala/nexus/internal/transport/rest"
	"github.com/frahmantamala/nexus/internal/transport/swagger"
	"github.com/frahmantamala/nexus/pkg/logger"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gateway HTTP server",
	Long:  `Start the Nexus gateway: auth, admin, citizen, officer and AI routing APIs`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper()

	db, statsDB, err := initDB(cfg.Database)
	if err != nil {
		lg.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	if _, err := swagger.LoadSpec(context.Background()); err != nil {
		lg.Warn("OpenAPI document failed validation", "error", err)
	}

	bus := events.NewEventBus(lg)
	router, err := rest.BuildGateway(rest.GatewayOptions{
		Config:  cfg,
		DB:      db,
		StatsDB: statsDB,
		Events:  bus,
		Logger:  lg,
	})
	if err != nil {
		lg.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	server := newHTTPServer(cfg.Server, cfg.Server.Port, router)
	serve(server, lg, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bus.Drain(ctx); err != nil {
			lg.Warn("Event handlers still running at shutdown", "error", err)
		}
		if err := statsDB.Close(); err != nil {
			lg.Error("Database close error", "error", err)
		}
	})
}

func newHTTPServer(cfg internal.ServerConfig, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// serve runs the server until SIGINT/SIGTERM, then drains for up to 30s.
func serve(server *http.Server, lg *slog.Logger, cleanup func()) {
	lg.Info("Starting HTTP server", "address", server.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
		cleanup()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("Server stopped")
}
