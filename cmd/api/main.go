package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"emojibooth/internal/collage"
	"emojibooth/internal/http/handlers"
	httpapi "emojibooth/internal/http/httpapi"
	"emojibooth/internal/infra"
	"emojibooth/internal/providers/genai"
	imageprovider "emojibooth/internal/providers/image"
	"emojibooth/internal/session"
	"emojibooth/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	client, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY not set, serving synthetic images")
	}

	composer, err := collage.New(collage.Options{
		Title:    cfg.CollageTitle,
		Subtitle: cfg.CollageSubtitle,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build collage compositor")
	}

	var exports *storage.FileStore
	if cfg.ExportDir != "" {
		exports, err = storage.NewFileStore(cfg.ExportDir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.ExportDir).Msg("failed to open export dir")
		}
	}

	app := &handlers.App{
		Logger:    logger,
		Sessions:  session.NewStore(cfg.SessionTTL),
		Generator: imageprovider.NewGeminiGenerator(client),
		Composer:  composer,
		Workers:   cfg.BoothWorkers,
		Exports:   exports,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
