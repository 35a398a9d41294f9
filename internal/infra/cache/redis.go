package cache

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"imaginify/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects using cfg and pings with a short timeout. It
// returns nil when Redis is not configured or unreachable; callers run
// without caching in that case.
func NewRedisClient(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	return client
}
