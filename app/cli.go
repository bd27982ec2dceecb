// Package app is the main cmd app
package app

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	"github.com/dhowell/biblio/api"
	"github.com/dhowell/biblio/config"
	"github.com/dhowell/biblio/logger"
	"github.com/dhowell/biblio/repo"
	"github.com/dhowell/biblio/seed"
	"github.com/dhowell/biblio/service"
	"github.com/dhowell/biblio/session"
)

func CLI(args []string) int {
	var app appEnv
	if err := app.fromArgs(args); err != nil {
		fmt.Println(err)
		return 2
	}

	if err := app.run(); err != nil {
		logger.Error("Runtime error", "error", err)
		return 1
	}
	return 0
}

// shutdownTimeout bounds how long in-flight requests get to drain.
const shutdownTimeout = 30 * time.Second

type appEnv struct {
	server      *http.Server
	config      *config.Config
	cmd         string
	fixturesDir string
	storage     *repo.Repo
	service     *service.Service
}

func (app *appEnv) fromArgs(args []string) error {
	fl := flag.NewFlagSet("biblio", flag.ContinueOnError)

	// Load default config
	cfg := config.Load()

	// CLI flags override environment variables
	port := cfg.Server.Port
	fixtures := cfg.Fixtures.Path

	fl.IntVar(&port, "p", cfg.Server.Port, "Port number")
	fl.StringVar(&fixtures, "f", cfg.Fixtures.Path, "Path to fixtures directory")

	if err := fl.Parse(args); err != nil {
		fl.Usage()
		return err
	}

	if fl.NArg() < 1 {
		return fmt.Errorf("please provide a command to run: serve | seed")
	}

	app.cmd = fl.Arg(0)
	app.fixturesDir = fixtures
	app.config = cfg
	app.config.Server.Port = port

	return nil
}

func (app *appEnv) run() error {
	// Initialize logger
	logger.Init(app.config.LogLevel)

	storage, err := repo.Open(app.config.Database.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	switch app.cmd {
	case "serve":
		app.storage = storage

		// An empty catalog gets the demo fixture set so the service
		// is browsable out of the box.
		books, err := storage.ListBooks()
		if err != nil {
			return fmt.Errorf("inspect catalog: %w", err)
		}
		if len(books) == 0 {
			if err := seed.Apply(storage, seed.Demo()); err != nil {
				return fmt.Errorf("seed demo fixtures: %w", err)
			}
		}

		sessions := session.NewStore(app.config.Session.Path)
		app.service = service.New(storage, sessions)
		app.serve()
	case "seed":
		defer func() {
			if err := storage.Close(); err != nil {
				logger.Error("Error closing storage", "error", err)
			}
		}()
		if err := seed.LoadDir(app.fixturesDir, storage); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %s", app.cmd)
	}
	return nil
}

func (app *appEnv) serve() {
	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: api.NewHandler(app.service),

		ReadTimeout:  time.Duration(app.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(app.config.Server.IdleTimeout) * time.Second,
	}
	app.server = srv

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			serverErrors <- err
			return
		}
		// Keep a roof on concurrent connections.
		ln = netutil.LimitListener(ln, app.config.Server.MaxConns)

		logger.Info("Server listening", "port", app.config.Server.Port, "url", fmt.Sprintf("http://localhost:%d", app.config.Server.Port))
		serverErrors <- srv.Serve(ln)
	}()

	// Wait for interrupt signal
	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server errors
	select {
	case err := <-serverErrors:
		// Server failed to start
		if err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
		return
	case sig := <-shutdownSignal:
		// Received shutdown signal
		logger.Info("Received shutdown signal", "signal", sig.String())
		app.shutdown()
	}
}

// shutdown drains in-flight requests and closes the storage. The drain
// timeout starts now, not when the server did, so a long-lived process
// still gets the full window.
func (app *appEnv) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Close database connection
	logger.Info("Closing database connection...")
	if err := app.storage.Close(); err != nil {
		logger.Error("Error closing storage", "error", err)
	}

	logger.Info("Server stopped")
}
