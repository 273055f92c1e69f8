// Package server runs the reference file-sharing service: it picks a
// storage backend, mounts the protocol handler and serves HTTP until the
// process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fileshare/internal/logging"
	"github.com/dmitrijs2005/fileshare/internal/server/config"
	"github.com/dmitrijs2005/fileshare/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.Storage
}

// newS3Storage is a test seam for storage.NewS3.
var newS3Storage = func(ctx context.Context, c storage.S3Config) (storage.Storage, error) {
	s, err := storage.NewS3(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		store storage.Storage
		err   error
	)

	switch c.Storage {
	case config.StorageS3:
		store, err = newS3Storage(ctx, storage.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Prefix:       c.S3Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
	default:
		store = storage.NewMemory()
	}

	return &App{config: c, logger: logger, store: store}, nil
}

// Handler returns the service's HTTP routes.
func (app *App) Handler() http.Handler {
	mux := http.NewServeMux()
	h := NewHandler(app.store, app.logger, app.config.MaxUploadSize)
	mux.Handle(app.config.BasePath, http.StripPrefix(app.config.BasePath, h))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or the process receives a stop signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Address, err)
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     app.Handler(),
		BaseContext: func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting server...", "address", ln.Addr().String(), "storage", app.config.Storage)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
