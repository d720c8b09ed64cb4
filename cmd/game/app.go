package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gridadventure/internal/config"
	"gridadventure/internal/debug"
	"gridadventure/internal/game"
	"gridadventure/internal/llm"
	"gridadventure/internal/logging"
	"gridadventure/internal/observability"
)

type app struct {
	game        *game.Game
	saves       *game.SaveStore
	debug       *debug.Logger
	completions *logging.CompletionLogger
}

func createApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	debugLogger := debug.NewLogger(cfg.Debug, cfg.DebugLog)

	tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	debugLogger.Printf("Loading locations from %s", cfg.LocationsPath)
	locations, err := game.LoadLocations(cfg.LocationsPath)
	if err != nil {
		debugLogger.Close()
		return nil, nil, err
	}
	debugLogger.Printf("Loaded %d locations", locations.Len())

	settings := game.DefaultModelSettings()
	settings.Model = cfg.Model
	settings.Temperature = cfg.Temperature
	settings.MaxTokens = cfg.MaxTokens

	narrator := llm.NewService(llm.Config{
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.RequestTimeout,
		Settings: settings,
	}, debugLogger)

	sessionID := uuid.NewString()
	opts := []game.Option{
		game.WithDebugLogger(debugLogger),
		game.WithSessionID(sessionID),
	}

	var completions *logging.CompletionLogger
	if cfg.CompletionDB != "" {
		completions, err = logging.NewCompletionLogger(cfg.CompletionDB)
		if err != nil {
			debugLogger.Close()
			return nil, nil, fmt.Errorf("failed to initialize completion logger (set completion_db to \"\" to disable): %w", err)
		}
		opts = append(opts, game.WithRecorder(completions))
	}

	saves := game.NewSaveStore(cfg.SaveDir)
	g := game.New(narrator, locations, saves, settings, opts...)
	debugLogger.Printf("Starting session %s against %s with model %s", sessionID, cfg.BaseURL, cfg.Model)

	cleanup := func() {
		if completions != nil {
			completions.Close()
		}
		if tracerProvider != nil {
			tracerProvider.Shutdown(context.Background())
		}
		debugLogger.Close()
	}

	return &app{
		game:        g,
		saves:       saves,
		debug:       debugLogger,
		completions: completions,
	}, cleanup, nil
}
