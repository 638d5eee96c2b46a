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
	"github.com/zhouzirui/site-studio/backend/internal/config"
	"github.com/zhouzirui/site-studio/backend/internal/handler"
	"github.com/zhouzirui/site-studio/backend/internal/handler/page"
	"github.com/zhouzirui/site-studio/backend/internal/model/theme"
	"github.com/zhouzirui/site-studio/backend/internal/service/ai"
	"github.com/zhouzirui/site-studio/backend/internal/service/generation"
	v0 "github.com/zhouzirui/site-studio/backend/internal/service/v0"
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

	themes := theme.Seed()
	if cfg.Theme.File != "" {
		themes, err = theme.LoadFile(cfg.Theme.File, themes)
		if err != nil {
			log.Fatalf("failed to load themes: %v", err)
		}
		log.Printf("loaded themes from %s", cfg.Theme.File)
	}
	themeStore := theme.NewMemoryStore(themes)

	active, ok := themeStore.FindByID(cfg.Theme.Active)
	if !ok {
		log.Fatalf("unknown theme %q", cfg.Theme.Active)
	}

	// Initialize generation backend
	var (
		backend  generation.Backend
		previews page.PreviewSource
	)
	switch cfg.Generation.Backend {
	case config.BackendV0:
		backend = v0.NewClient(cfg.Generation.APIKey, cfg.Generation.BaseURL, cfg.Generation.Timeout)
		log.Printf("using v0 backend at %s", cfg.Generation.BaseURL)
	default:
		memory := generation.NewMemoryBackend(cfg.Generation.PreviewBase)
		backend = memory
		previews = memory
		log.Println(memoryBackendReason(cfg.Generation))
	}

	var refiner generation.Refiner
	if cfg.AI.RefineEnabled {
		refiner = newRefiner(ctx, cfg.AI, active.DomainHint)
	}

	mode, err := generation.ParseMode(cfg.Bootstrap.Mode)
	if err != nil {
		log.Fatalf("invalid BOOTSTRAP_MODE: %v", err)
	}
	bootstrap := generation.BootstrapFromTheme(active, mode)
	if cfg.Bootstrap.ProjectName != "" {
		bootstrap.ProjectName = cfg.Bootstrap.ProjectName
	}
	if cfg.Bootstrap.TemplateURL != "" {
		bootstrap.TemplateURL = cfg.Bootstrap.TemplateURL
	}

	generationService, err := generation.NewService(backend, bootstrap, refiner)
	if err != nil {
		log.Fatalf("failed to initialize generation service: %v", err)
	}
	log.Printf("generation service ready (theme=%s, bootstrap=%s)", active.ID, bootstrap.Mode)

	router := handler.NewRouter(handler.Options{
		Chat:           generationService,
		Themes:         themeStore,
		ActiveTheme:    active.ID,
		Previews:       previews,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	startServer(ctx, cfg.Server, router)
}

// memoryBackendReason 说明为何使用内存后端。配置了密钥时只能是显式选择
func memoryBackendReason(genCfg config.GenerationConfig) string {
	if genCfg.APIKey == "" {
		return "V0_API_KEY 未配置，使用内存生成后端"
	}
	return "GENERATION_BACKEND=memory，已忽略 V0_API_KEY，使用内存生成后端"
}

// newRefiner returns nil when the model cannot be built, so requests keep
// using the raw prompt.
func newRefiner(ctx context.Context, aiCfg config.AIConfig, domainHint string) generation.Refiner {
	if !aiCfg.Enabled() {
		log.Println("Ark 凭证未配置，跳过提示词精炼")
		return nil
	}

	chatModel, err := aiCfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to initialize chat model: %v", err)
		return nil
	}

	refiner, err := ai.NewRefiner(ctx, chatModel, domainHint)
	if err != nil {
		log.Printf("warning: failed to initialize prompt refiner: %v", err)
		return nil
	}

	log.Println("prompt refiner initialized successfully")
	return refiner
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Site Studio backend listening on %s (%s)", addr, serverCfg.PublicURL)
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
