package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/infra/db"
	"marketplace/internal/infra/events"
	"marketplace/internal/infra/lock"
	"marketplace/internal/infra/token"
	"marketplace/internal/logger"
	"marketplace/internal/observability"
	"marketplace/internal/server"
	"marketplace/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		return err
	}
	defer log.Sync()

	//トレース（OTEL_ENABLEDの時だけ）
	shutdownTracing, err := observability.InitTracing(context.Background(), log, cfg)
	if err != nil {
		return fmt.Errorf("otel init: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	//DB接続
	gdb, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Warn("db close failed", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	//注文確定のロック（REDIS_ADDRがあればRedis）
	var locker lock.Locker = lock.NewLocalLocker(cfg.OrderLockWait)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.OrderLockTTL, cfg.OrderLockWait,
			lock.WithReleaseHook(func(key string, err error) {
				log.Warn("order lock release failed", "key", key, "error", err)
			}),
		)
		log.Info("using redis order lock", "addr", cfg.RedisAddr)
	}

	//注文イベント（RABBITMQ_URLが無ければ送らない）
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.DialRabbit(cfg.RabbitMQURL, events.DefaultExchange)
		if err != nil {
			return err
		}
		publisher = rp
		log.Info("publishing order events", "exchange", events.DefaultExchange)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("event publisher close failed", "error", err)
		}
	}()

	tokens := token.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	handlers := server.NewHandlers(gdb, server.Deps{
		Tokens:    tokens,
		Locker:    locker,
		Publisher: publisher,
		Clock:     usecase.SystemClock{},
		Log:       log,
	})
	e := server.New(cfg, log, func(ctx context.Context) error { return db.Ping(ctx, gdb) }, tokens, handlers)

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr, "env", cfg.GoEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	//SIGINT/SIGTERMで停止
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
