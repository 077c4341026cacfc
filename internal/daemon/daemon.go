package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// Options configures the HTTP server run by the daemon
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Daemon runs the query server until it is stopped or the process is signalled
type Daemon struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
	ctx             context.Context
	cancel          context.CancelFunc
}

// NewDaemon creates a new daemon serving handler
func NewDaemon(handler http.Handler, opts Options, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	return &Daemon{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			ErrorLog:          zap.NewStdLog(logger),
		},
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start listens on the configured address and serves until stopped
func (d *Daemon) Start() error {
	ln, err := net.Listen("tcp", d.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.server.Addr, err)
	}
	return d.Serve(ln)
}

// Serve serves on ln until Stop is called, SIGINT/SIGTERM arrives or the
// server fails. In-flight requests get ShutdownTimeout to finish.
func (d *Daemon) Serve(ln net.Listener) error {
	d.logger.Info("Daemon started",
		zap.String("addr", ln.Addr().String()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.server.Serve(ln)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)

	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-d.ctx.Done():
		d.logger.Info("Daemon stop requested")
	}

	return d.shutdown(errChan)
}

// Stop asks a running Serve to shut down
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) shutdown(errChan <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	d.logger.Info("Daemon stopped")
	return nil
}
