package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fiascohq/fiasco/backend/internal/config"
	"github.com/fiascohq/fiasco/backend/internal/handler"
	"github.com/fiascohq/fiasco/backend/internal/service/analyzer"
	"github.com/fiascohq/fiasco/backend/internal/service/profiles"
	"github.com/fiascohq/fiasco/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sessionStore, err := newStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	simulated := analyzer.NewSimulated(analyzer.Config{
		Delay:   cfg.Analyzer.Delay,
		Timeout: cfg.Analyzer.Timeout,
	})

	svc := profiles.NewService(sessionStore, simulated)
	router := handler.NewRouter(svc)

	startServer(ctx, cfg.Server, router)
}

func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		db, err := store.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		log.Println("[store] using postgres session store")
		return pg, nil
	default:
		log.Println("[store] using in-memory session store")
		return store.NewMemory(), nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Fiasco backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
