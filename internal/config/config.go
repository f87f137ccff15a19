package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig carries every tunable the server reads from the environment.
type AppConfig struct {
	Addr        string
	LogLevel    string
	DatabaseURL string

	// RoomIdleTTL is how long a room may sit with zero seated players
	// before the sweep reclaims it.
	RoomIdleTTL   time.Duration
	SweepInterval time.Duration

	ChatHistoryLimit int
}

func Load() *AppConfig {
	cfg := &AppConfig{
		Addr:             ":8080",
		LogLevel:         "info",
		RoomIdleTTL:      10 * time.Minute,
		SweepInterval:    time.Minute,
		ChatHistoryLimit: 100,
	}

	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if d, err := time.ParseDuration(os.Getenv("ROOM_IDLE_TTL")); err == nil && d > 0 {
		cfg.RoomIdleTTL = d
	}
	if d, err := time.ParseDuration(os.Getenv("SWEEP_INTERVAL")); err == nil && d > 0 {
		cfg.SweepInterval = d
	}
	if n, err := strconv.Atoi(os.Getenv("CHAT_HISTORY_LIMIT")); err == nil && n > 0 {
		cfg.ChatHistoryLimit = n
	}
	return cfg
}
