package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"forkify/internal/api"
	"forkify/internal/likes"
	"forkify/internal/platform/forkify"
	"forkify/internal/platform/imaging"
	"forkify/internal/storage"
)

const outboundTimeout = 15 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := loadConfig("config.json", ".env")
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := openStore(cfg.DatabaseURL, cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("error creating store", zap.Error(err))
	}
	defer closeStore()

	liked := likes.New(store)
	if err := liked.ReadStorage(ctx); err != nil {
		logger.Warn("could not restore likes, starting empty", zap.Error(err))
	}
	logger.Info("likes restored", zap.Int("count", liked.NumLikes()))

	client := forkify.NewClient(cfg.ForkifyAPIURL, outboundTimeout)
	thumbnailer := imaging.NewThumbnailer(cfg.ThumbnailDir, imaging.DefaultWidth, outboundTimeout)
	handler := api.NewHandler(client, thumbnailer, api.NewState(liked), logger)

	r := newRouter(cfg, handler)
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("listening", zap.String("addr", addr), zap.String("api", cfg.ForkifyAPIURL))
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// openStore picks Postgres when a database URL is configured, then a file
// store under dataDir, and the in-memory store when neither is set.
func openStore(databaseURL, dataDir string, logger *zap.Logger) (storage.Store, func(), error) {
	if databaseURL == "" {
		if dataDir == "" {
			logger.Warn("no database or data dir configured, likes will not survive a restart")
			return storage.NewMemoryStore(), func() {}, nil
		}
		fileStore, err := storage.NewFileStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", zap.String("dir", dataDir))
		return fileStore, func() {}, nil
	}
	pg, err := storage.NewPostgresStore(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, func() {
		if err := pg.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}, nil
}

func newRouter(cfg Config, handler *api.Handler) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	handler.Routes(r)
	return r
}
