package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/stillwater-labs/navigator/internal/api"
	"github.com/stillwater-labs/navigator/internal/archive"
	"github.com/stillwater-labs/navigator/internal/config"
	"github.com/stillwater-labs/navigator/internal/gemini"
	"github.com/stillwater-labs/navigator/internal/prompt"
	"github.com/stillwater-labs/navigator/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("navigator starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini client
	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	// Archive (optional — the navigator works without it, journeys are
	// just not recorded)
	var arc session.Archiver
	if cfg.DatabaseURL != "" {
		a, err := archive.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		arc = a
		slog.Info("journey archive connected")
	} else {
		slog.Warn("database not configured — running without journey archive")
	}

	// Session machines
	settings := session.Settings{
		LineageCount:      cfg.LineageCount,
		ConclusionMarker:  cfg.ConclusionMarker,
		ConcludeOnMarker:  cfg.ConcludeOnMarker,
		DiscoverMore:      cfg.DiscoverMore,
		SystemInstruction: prompt.SystemInstruction(cfg.InstructionVariant, cfg.ConclusionMarker),
	}
	manager := session.NewManager(settings, llm, arc, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, manager)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("navigator ready",
		"port", cfg.Port,
		"instruction_variant", cfg.InstructionVariant,
		"conclude_on_marker", cfg.ConcludeOnMarker,
	)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("navigator stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
