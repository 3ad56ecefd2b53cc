package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/obslog"
)

type AppConfig struct {
	ListenAddr     string
	AllowedOrigins []string

	MaxGames    int
	MessagesDir string

	Log obslog.Options
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:     ":3000",
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxGames:       200,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = nil
		for _, p := range strings.Split(v, ",") {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAX_GAMES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_GAMES must be a positive integer, got %q", v)
		}
		cfg.MaxGames = n
	}

	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		info, err := os.Stat(v)
		if err != nil {
			return nil, fmt.Errorf("MESSAGES_DIR: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("MESSAGES_DIR %q is not a directory", v)
		}
		cfg.MessagesDir = v
	}

	cfg.Log = obslog.OptionsFromEnv()
	return cfg, nil
}

// OriginList joins AllowedOrigins the way the CORS middleware expects it.
func (c *AppConfig) OriginList() string {
	return strings.Join(c.AllowedOrigins, ", ")
}
