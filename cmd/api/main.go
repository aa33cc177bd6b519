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

	"github.com/sridharsri/consultancy/backend/internal/config"
	"github.com/sridharsri/consultancy/backend/internal/handler"
	"github.com/sridharsri/consultancy/backend/internal/model/doctor"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	"github.com/sridharsri/consultancy/backend/internal/resolver/rules"
	"github.com/sridharsri/consultancy/backend/internal/service/ai"
	"github.com/sridharsri/consultancy/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	doctorStore := doctor.NewMemoryStore(doctor.Seed())
	chatService := chat.NewService()

	res := buildResolver(ctx, cfg, doctorStore, chatService)

	router := handler.NewRouter(doctorStore, chatService, res)

	startServer(ctx, cfg.Server, router)
}

// buildResolver selects the deployment's response resolver. The AI mode
// needs Ark credentials; when they are missing or the model fails to
// initialize, the server falls back to the keyword rules so the chat
// endpoint stays usable.
func buildResolver(ctx context.Context, cfg *config.Config, doctors doctor.Store, chatSvc *chat.Service) resolver.Resolver {
	if cfg.Chat.ResolverMode == config.ResolverAI {
		if !cfg.AI.Enabled() {
			log.Println("CHAT_RESOLVER=ai but Ark credentials are not configured, using keyword rules")
			return rules.New(nil)
		}

		aiService, err := ai.NewService(ctx, doctors, chatSvc, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI resolver: %v", err)
			log.Println("falling back to keyword rules")
			return rules.New(nil)
		}

		log.Println("AI resolver initialized successfully")
		return aiService
	}

	log.Println("using keyword-rule resolver")
	return rules.New(nil)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Consultancy backend listening on %s", addr)
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
