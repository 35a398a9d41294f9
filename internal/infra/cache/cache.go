// Package cache stores rendered GET responses in Redis and drops them again
// when the UI path they belong to is revalidated.
package cache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"imaginify/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Cache is safe to use with a nil client; it then caches nothing.
type Cache struct {
	rdb    *redis.Client
	cfg    config.CacheConfig
	logger *slog.Logger
}

func New(rdb *redis.Client, cfg config.CacheConfig, logger *slog.Logger) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "cache"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{rdb: rdb, cfg: cfg, logger: logger}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil && c.cfg.Enabled
}

type entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body while passing it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.capture(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *captureWriter) capture(b []byte) {
	if w.overflow {
		return
	}
	if w.limit > 0 && w.buf.Len()+len(b) > w.limit {
		w.overflow = true
		return
	}
	w.buf.Write(b)
}

func (c *Cache) key(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", c.cfg.Prefix, sum[:])
}

func (c *Cache) indexKey(uiPath string) string {
	return c.cfg.Prefix + ":path:" + uiPath
}

// Middleware serves cached GET responses and stores fresh 200s. Entries are
// indexed under uiPath so Revalidate(uiPath) can drop them.
func (c *Cache) Middleware(uiPath string) gin.HandlerFunc {
	if !c.enabled() {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}
		reqCtx := ctx.Request.Context()
		key := c.key(ctx.Request)

		if bs, err := c.rdb.Get(reqCtx, key).Bytes(); err == nil {
			var e entry
			if json.Unmarshal(bs, &e) == nil {
				ctx.Header("X-Cache", "HIT")
				ctx.Data(e.Status, e.ContentType, e.Body)
				ctx.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: ctx.Writer, limit: c.cfg.MaxBodyBytes}
		ctx.Writer = cw
		ctx.Header("X-Cache", "MISS")
		ctx.Next()

		if cw.Status() != http.StatusOK || cw.overflow {
			return
		}
		payload, err := json.Marshal(entry{
			Status:      cw.Status(),
			ContentType: cw.Header().Get("Content-Type"),
			Body:        cw.buf.Bytes(),
		})
		if err != nil {
			return
		}

		bg := context.Background()
		pipe := c.rdb.TxPipeline()
		pipe.Set(bg, key, payload, c.cfg.TTL)
		pipe.SAdd(bg, c.indexKey(uiPath), key)
		pipe.Expire(bg, c.indexKey(uiPath), c.cfg.TTL)
		if _, err := pipe.Exec(bg); err != nil {
			c.logger.Warn("cache store failed", slog.String("error", err.Error()))
		}
	}
}

// Revalidate drops every cached response recorded under uiPath.
func (c *Cache) Revalidate(ctx context.Context, uiPath string) error {
	if !c.enabled() {
		return nil
	}
	idx := c.indexKey(uiPath)
	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("revalidate %s: %w", uiPath, err)
	}
	keys = append(keys, idx)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revalidate %s: %w", uiPath, err)
	}
	c.logger.Debug("path revalidated", slog.String("path", uiPath), slog.Int("entries", len(keys)-1))
	return nil
}
