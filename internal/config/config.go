package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port               int
	LogLevel           string
	GeminiAPIKey       string
	GeminiModel        string
	LineageCount       int
	ConclusionMarker   string
	ConcludeOnMarker   bool
	DiscoverMore       bool
	InstructionVariant string
	DatabaseURL        string
	APIToken           string
}

func Load() Config {
	cfg := Config{
		Port:             envInt("NAVIGATOR_PORT", 8760),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		GeminiAPIKey:     envStr("GEMINI_API_KEY", ""),
		GeminiModel:      envStr("NAVIGATOR_MODEL", "gemini-2.5-flash"),
		LineageCount:     envInt("NAVIGATOR_LINEAGE_COUNT", 5),
		ConclusionMarker: envStr("NAVIGATOR_CONCLUSION_MARKER", "CONCLUSION:"),
		ConcludeOnMarker: envBool("NAVIGATOR_CONCLUDE_ON_MARKER", true),
		DiscoverMore:     envBool("NAVIGATOR_DISCOVER_MORE", true),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		APIToken:         envStr("NAVIGATOR_API_TOKEN", ""),
	}

	// The instruction variant follows the conclusion policy unless
	// pinned explicitly.
	fallback := "open"
	if cfg.ConcludeOnMarker {
		fallback = "guided"
	}
	cfg.InstructionVariant = envStr("NAVIGATOR_INSTRUCTION_VARIANT", fallback)

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
