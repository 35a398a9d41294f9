package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"imaginify/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test"}, nil), mr
}

func newRouter(c *Cache, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/images", c.Middleware("/"), func(ctx *gin.Context) {
		*calls++
		ctx.JSON(http.StatusOK, gin.H{"calls": *calls})
	})
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestMiddlewareServesHits(t *testing.T) {
	c, _ := newTestCache(t)
	calls := 0
	r := newRouter(c, &calls)

	first := get(r, "/api/images?page=1")
	second := get(r, "/api/images?page=1")

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	get(r, "/api/images?page=2")
	assert.Equal(t, 2, calls)
}

func TestRevalidateDropsPathEntries(t *testing.T) {
	c, mr := newTestCache(t)
	calls := 0
	r := newRouter(c, &calls)

	get(r, "/api/images?page=1")
	get(r, "/api/images?page=2")
	require.True(t, mr.Exists("test:path:/"))

	require.NoError(t, c.Revalidate(context.Background(), "/"))

	assert.False(t, mr.Exists("test:path:/"))
	w := get(r, "/api/images?page=1")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 3, calls)
}

func TestRevalidateOtherPathKeepsEntries(t *testing.T) {
	c, _ := newTestCache(t)
	calls := 0
	r := newRouter(c, &calls)

	get(r, "/api/images")
	require.NoError(t, c.Revalidate(context.Background(), "/profile"))

	assert.Equal(t, "HIT", get(r, "/api/images").Header().Get("X-Cache"))
}

func TestNilClientPassesThrough(t *testing.T) {
	c := New(nil, config.CacheConfig{Enabled: true}, nil)
	calls := 0
	r := newRouter(c, &calls)

	get(r, "/api/images")
	get(r, "/api/images")

	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Revalidate(context.Background(), "/"))
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(config.RedisConfig{}, nil))
}
