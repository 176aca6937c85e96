package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Бэкенды работы с изображениями
const (
	BackendImaging = "imaging"
	BackendGoCV    = "gocv"
)

type Config struct {
	TelegramToken    string
	HTTPAddr         string
	ClassifierURL    string
	ClassifierSerial bool
	DatabaseURL      string
	WorkDir          string
	ImageBackend     string
	ZoneWorkers      int
	GridSize         int
	ModeThreshold    float64
	LogLevel         slog.Level
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		ClassifierURL: getEnv("CLASSIFIER_URL", "http://localhost:5000/predict"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WorkDir:       getEnv("WORK_DIR", filepath.Join(os.TempDir(), "recognition")),
		ImageBackend:  strings.ToLower(getEnv("IMAGE_BACKEND", BackendImaging)),
	}

	var err error
	if cfg.ClassifierSerial, err = getBool("CLASSIFIER_SERIAL", false); err != nil {
		return nil, err
	}
	if cfg.ZoneWorkers, err = getInt("ZONE_WORKERS", 4); err != nil {
		return nil, err
	}
	if cfg.GridSize, err = getInt("GRID_SIZE", 3); err != nil {
		return nil, err
	}
	if cfg.ModeThreshold, err = getFloat("MODE_THRESHOLD", 0.35); err != nil {
		return nil, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ImageBackend {
	case BackendImaging, BackendGoCV:
	default:
		return fmt.Errorf("IMAGE_BACKEND: unsupported value %q", c.ImageBackend)
	}
	if c.GridSize < 1 {
		return fmt.Errorf("GRID_SIZE must be positive, got %d", c.GridSize)
	}
	if c.ZoneWorkers < 1 {
		return fmt.Errorf("ZONE_WORKERS must be positive, got %d", c.ZoneWorkers)
	}
	if c.ModeThreshold <= 0 || c.ModeThreshold > 1 {
		return fmt.Errorf("MODE_THRESHOLD must be in (0, 1], got %v", c.ModeThreshold)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
