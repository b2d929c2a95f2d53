package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/inventory/internal/middleware/auth"
)

const window = time.Minute

// RedisStore is a fixed-window counter shared by every instance of the API.
type RedisStore struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	Prefix string
}

func NewRedisStore(client *redis.Client, perMinute int) *RedisStore {
	return &RedisStore{Client: client, Limit: perMinute, Window: window, Prefix: "ratelimit:"}
}

// Allow fails open: a Redis outage must not take the API down with it.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	slot := time.Now().Unix() / int64(s.Window/time.Second)
	key := s.Prefix + identifier + ":" + strconv.FormatInt(slot, 10)

	n, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		logrus.WithError(err).Warn("ratelimit_store_unavailable")
		return true, nil
	}
	if n == 1 {
		if err := s.Client.Expire(ctx, key, s.Window).Err(); err != nil {
			logrus.WithError(err).Warn("ratelimit_expire_failed")
		}
	}
	return n <= int64(s.Limit), nil
}

func NewMemoryStore(perMinute int) middleware.RateLimiterStore {
	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / window.Seconds()),
		Burst:     perMinute,
		ExpiresIn: 3 * window,
	})
}

// identifier keys authenticated callers by user and everyone else by address.
func identifier(c echo.Context) (string, error) {
	if id := auth.IdentityFrom(c); id != nil {
		return "user:" + strconv.FormatUint(uint64(id.UserID), 10), nil
	}
	return "ip:" + c.RealIP(), nil
}

// New returns the throttle middleware. With a nil client the limit is kept
// in process memory.
func New(client *redis.Client, perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	var store middleware.RateLimiterStore
	if client != nil {
		store = NewRedisStore(client, perMinute)
	} else {
		store = NewMemoryStore(perMinute)
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: identifier,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify the client.").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, _ string, err error) error {
			c.Response().Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too Many Attempts.").SetInternal(err)
		},
	})
}
