package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/insightwave/interviewer/backend/internal/config"
	"github.com/insightwave/interviewer/backend/internal/handler"
	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
	"github.com/insightwave/interviewer/backend/internal/service/ai"
	"github.com/insightwave/interviewer/backend/internal/service/insight"
	interviewService "github.com/insightwave/interviewer/backend/internal/service/interview"
	"github.com/insightwave/interviewer/backend/internal/service/question"
	"github.com/insightwave/interviewer/backend/internal/settings"
	"github.com/insightwave/interviewer/backend/internal/storage"
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

	settingsStore, err := settings.NewFileStore(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("failed to initialize settings store: %v", err)
	}

	archive, err := storage.NewFileArchive(filepath.Join(cfg.Data.Dir, "sessions"))
	if err != nil {
		log.Fatalf("failed to initialize session archive: %v", err)
	}

	sessionStore := interviewModel.NewMemoryStore(cfg.Data.SessionTTL)
	defer sessionStore.Close()

	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing with canned questions and naive analysis only")
			aiService = nil
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, continuing without AI functionality")
	}

	interviewSvc := interviewService.NewService(
		sessionStore,
		question.NewGenerator(aiService, nil),
		insight.NewAnalyzer(aiService),
		archive,
		settingsStore,
	)

	router := handler.NewRouter(interviewSvc, settingsStore, cfg.Server.AllowedOrigins)

	startServers(ctx, cfg.Server, router)
}

// startServers runs one HTTP server per configured listen address and
// blocks until all of them have shut down.
func startServers(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	g, ctx := errgroup.WithContext(ctx)

	for _, addr := range serverCfg.Addrs {
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		log.Printf("interviewer backend listening on %s", addr)
		g.Go(func() error {
			return runServer(ctx, srv)
		})
	}

	if err := g.Wait(); err != nil {
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
