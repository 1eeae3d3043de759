package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/seekguard/internal/controller"
	"github.com/sharetube/seekguard/internal/repository/connection/inmemory"
	"github.com/sharetube/seekguard/internal/repository/player/redis"
	"github.com/sharetube/seekguard/internal/service/player"
	"github.com/sharetube/seekguard/internal/source"
	"github.com/sharetube/seekguard/pkg/ctxlogger"
	"github.com/sharetube/seekguard/pkg/redisclient"
)

type AppConfig struct {
	Secret          string        `json:"-"`
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	LogLevel        string        `json:"log_level"`
	SessionTTL      time.Duration `json:"session_ttl"`
	RedisPort       int           `json:"redis_port"`
	RedisHost       string        `json:"redis_host"`
	RedisPassword   string        `json:"-"`
	S3Endpoint      string        `json:"s3_endpoint"`
	S3PublicURL     string        `json:"s3_public_endpoint"`
	S3Bucket        string        `json:"s3_bucket"`
	S3Region        string        `json:"s3_region"`
	S3AccessKey     string        `json:"-"`
	S3SecretKey     string        `json:"-"`
	S3PresignExpiry time.Duration `json:"s3_presign_expiry"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must be set")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be greater than 0")
	}
	if cfg.S3Bucket != "" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		return fmt.Errorf("s3 credentials must be set when a bucket is configured")
	}
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	resolver, err := source.NewResolver(ctx, source.Config{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicURL,
		Bucket:         cfg.S3Bucket,
		Region:         cfg.S3Region,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		PresignExpiry:  cfg.S3PresignExpiry,
	})
	if err != nil {
		return fmt.Errorf("failed to create source resolver: %w", err)
	}

	playerRepo := redis.NewRepo(rc, cfg.SessionTTL)
	connectionRepo := inmemory.NewRepo(logger)
	playerService := player.NewService(playerRepo, connectionRepo, resolver, &player.Config{
		Secret:   cfg.Secret,
		TokenTTL: cfg.SessionTTL,
	}, logger)
	controller := controller.NewController(playerService, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           controller.GetMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// hijacked websocket connections are not closed by Shutdown
	server.RegisterOnShutdown(func() {
		playerService.CloseAll(context.WithoutCancel(ctx))
	})

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
