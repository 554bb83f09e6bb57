package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/carolina-grind/internal/a2a"
	"github.com/BerylCAtieno/carolina-grind/internal/assistant"
	"github.com/BerylCAtieno/carolina-grind/internal/catalog"
	"github.com/BerylCAtieno/carolina-grind/internal/clock"
	"github.com/BerylCAtieno/carolina-grind/internal/config"
	"github.com/BerylCAtieno/carolina-grind/internal/logging"
	"github.com/BerylCAtieno/carolina-grind/internal/site"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Without a key, or if the client cannot be built, the chat widget runs in degraded mode.
	var generator assistant.Generator
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; chat assistant is offline")
	} else {
		geminiClient, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Error("gemini client unavailable; chat assistant is offline", zap.Error(err))
		} else {
			defer geminiClient.Close()
			generator = geminiClient
		}
	}
	bridge := assistant.NewBridge(cfg.GeminiAPIKey, generator, logger.Named("assistant"))

	store := site.NewStore(catalog.Default(), clock.Real{}, cfg.ViewTTL, logger.Named("views"))
	defer store.Close()
	go store.Run(ctx, cfg.ViewTTL/2)

	siteHandler, err := site.NewHandler(site.Options{
		Store:         store,
		Bridge:        bridge,
		Logger:        logger.Named("site"),
		HashKey:       cfg.ViewCookieHashKey,
		BlockKey:      cfg.ViewCookieBlockKey,
		SecureCookies: cfg.SecureCookies(),
	})
	if err != nil {
		logger.Fatal("Failed to build site handler", zap.Error(err))
	}
	a2aHandler := a2a.NewA2AHandler(bridge, logger.Named("a2a"))

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(logging.RequestLogger(logger.Named("http")), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	siteHandler.Register(router)
	a2aHandler.Register(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("Carolina Grind starting",
		zap.String("port", cfg.Port),
		zap.Bool("chat_online", bridge.Online()),
		zap.Duration("view_ttl", cfg.ViewTTL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}
