package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"influencerd/internal/audit"
	"influencerd/internal/http/handlers"
	httpapi "influencerd/internal/http/httpapi"
	"influencerd/internal/infra"
	"influencerd/internal/jobs"
	"influencerd/internal/media"
	"influencerd/internal/pipeline"
	"influencerd/internal/providers/genai"
	"influencerd/internal/providers/image"
	"influencerd/internal/providers/speech"
	"influencerd/internal/providers/video"
	"influencerd/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	registry := jobs.NewRegistry()
	runner, err := jobs.NewRunner(cfg.WorkerPoolSize, registry, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job runner")
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	recorder := audit.NewRecorder(audit.Options{
		APIKey:    cfg.AirtableAPIKey,
		BaseID:    cfg.AirtableBaseID,
		TableName: cfg.AirtableTableName,
	})
	if recorder.Enabled() {
		logger.Info().Msg("airtable audit integration enabled")
	}

	pipelines := pipeline.New(pipeline.Deps{
		Registry:        registry,
		Store:           store,
		Images:          image.NewImagen(geminiClient, cfg.ImagenModel),
		Videos:          video.NewVeo(geminiClient, cfg.VeoModel),
		Speech:          speech.NewGoogleTTS(speech.GoogleTTSOptions{BaseURL: cfg.TTSBaseURL}),
		Muxer:           media.NewFFmpeg("", logger),
		Audit:           recorder,
		Logger:          logger,
		PollBudget:      cfg.PollBudget,
		PollInterval:    cfg.PollInterval,
		DefaultDuration: cfg.DefaultDuration,
	})

	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Runner:    runner,
		Pipelines: pipelines,
		Store:     store,
		Audit:     recorder,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router, runner.Release)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

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
