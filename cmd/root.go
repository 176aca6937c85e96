package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"recognition-bot/config"
	app "recognition-bot/internal/application"
	"recognition-bot/internal/container"
	"recognition-bot/internal/domain/port"
	"recognition-bot/internal/infrastructure/storage"
	"recognition-bot/internal/infrastructure/vision"
)

// runtime общие для подкоманд зависимости, собираются в PersistentPreRunE
type runtime struct {
	cfg        *config.Config
	app        *container.Container
	classifier *vision.HTTPClassifier
	closers    []func()
}

var rt runtime

var rootCmd = &cobra.Command{
	Use:          "recognition-bot",
	Short:        "Распознавание крепежа на фотографиях: Telegram-бот, REST API и пакетный режим",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

		return rt.build(cmd.Context(), cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		rt.close()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rt.close()
		log.Fatalf("Error: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(botCmd, serveCmd, recognizeCmd)
}

// build собирает адаптеры по конфигурации и сервисы приложения
func (r *runtime) build(ctx context.Context, cfg *config.Config) error {
	r.cfg = cfg

	images, err := newImageStore(cfg)
	if err != nil {
		return err
	}

	r.classifier = vision.NewHTTPClassifier(cfg.ClassifierURL, &http.Client{Timeout: 30 * time.Second})
	var classifier port.Classifier = r.classifier
	if cfg.ClassifierSerial {
		classifier = vision.NewSerializedClassifier(classifier)
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.classifier.CheckHealth(healthCtx); err != nil {
		slog.Warn("classifier is not reachable yet", "url", cfg.ClassifierURL, "error", err)
	}

	var recognitions port.RecognitionRepository
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresRecognitionRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		r.closers = append(r.closers, pg.Close)
		recognitions = pg
	} else {
		slog.Info("DATABASE_URL is empty, recognitions are kept in memory")
		recognitions = storage.NewMemoryRecognitionRepository()
	}

	policy := app.DefaultPolicy()
	policy.GridSize = cfg.GridSize
	policy.ZoneWorkers = cfg.ZoneWorkers
	policy.ModeThreshold = cfg.ModeThreshold

	r.app = container.New(container.Deps{
		Users:         storage.NewMemoryUserRepository(),
		Recognitions:  recognitions,
		Classifier:    classifier,
		Images:        images,
		Fingerprinter: vision.NewDHashFingerprinter(),
	}, policy)

	return nil
}

func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

func newImageStore(cfg *config.Config) (port.ImageStore, error) {
	switch cfg.ImageBackend {
	case config.BackendGoCV:
		store, err := vision.NewGoCVImageStore(cfg.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("init gocv image store: %w", err)
		}
		return store, nil
	default:
		store, err := vision.NewFileImageStore(cfg.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("init image store: %w", err)
		}
		return store, nil
	}
}
