package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/backend"
	"horse.fit/polyglot/internal/cli"
	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/detect"
	"horse.fit/polyglot/internal/logging"
	"horse.fit/polyglot/internal/ocr"
	"horse.fit/polyglot/internal/translation"
)

// services is the wired object graph every command runs against.
type services struct {
	cfg          *config.Config
	logger       zerolog.Logger
	client       *backend.Client
	orchestrator *translation.Orchestrator
	pipeline     *ocr.Pipeline
	detector     *detect.Detector
}

func buildServices(envLoader *cli.EnvLoader) (*services, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	client := backend.NewClient(backend.Options{
		Settings:        cfg.BackendSettings(),
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		ProbeTimeout:    cfg.ProbeTimeout(),
		GenerateTimeout: cfg.GenerateTimeout(),
	}, logger)

	registry, err := translation.NewDefaultRegistry(client, cfg.DeepLAPIKey, cfg.GenerateTimeout())
	if err != nil {
		return nil, fmt.Errorf("build provider registry: %w", err)
	}

	return &services{
		cfg:          cfg,
		logger:       logger,
		client:       client,
		orchestrator: translation.NewOrchestrator(registry, logger),
		pipeline:     ocr.NewPipeline(client, ocr.NewTesseractRecognizer(), logger),
		detector: detect.NewDetector(
			translation.NewGoogleBackend("", cfg.GenerateTimeout()),
			client,
			logger,
		),
	}, nil
}
