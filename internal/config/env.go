package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvPath is the optional dotenv file merged into the process environment.
var DotEnvPath = ".env"

func applyEnv(cfg *AppConfig) error {
	if err := godotenv.Load(DotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvPath, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	// PORT without prefix is what most hosting platforms inject.
	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" && os.Getenv(EnvPrefix+"PORT") == "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		cfg.Port = port
	}
	return nil
}
