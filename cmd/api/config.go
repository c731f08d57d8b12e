package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"forkify/internal/platform/forkify"
)

// Config represents the application configuration.
type Config struct {
	ForkifyAPIURL string   `json:"forkify_api_url"`
	DatabaseURL   string   `json:"DATABASE_URL"`
	Port          int      `json:"port"`
	AllowOrigins  []string `json:"allow_origins"`
	DataDir       string   `json:"data_dir"`
	ThumbnailDir  string   `json:"thumbnail_dir"`
	Debug         bool     `json:"debug"`
}

func defaultConfig() Config {
	return Config{
		ForkifyAPIURL: forkify.DefaultBaseURL,
		Port:          8080,
		AllowOrigins:  []string{"http://localhost:8081"},
		DataDir:       "data",
		ThumbnailDir:  "images/thumbnails",
	}
}

// loadConfig reads the JSON config file, then applies environment overrides.
// Variables in envFile are loaded first but never replace ones already set.
// Missing files are not an error.
func loadConfig(path, envFile string) (Config, error) {
	cfg := defaultConfig()

	configData, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if v := os.Getenv("FORKIFY_API_URL"); v != "" {
		cfg.ForkifyAPIURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("THUMBNAIL_DIR"); v != "" {
		cfg.ThumbnailDir = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid DEBUG env variable")
		}
		cfg.Debug = debug
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}
	return cfg, nil
}
