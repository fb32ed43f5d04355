package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/models"
)

const productListKey = "signage:products"

// ProductCache 제품 목록 캐시. 조회 실패는 캐시 미스로 취급한다.
type ProductCache interface {
	Get(ctx context.Context) ([]models.Product, bool)
	Set(ctx context.Context, products []models.Product)
	Invalidate(ctx context.Context)
}

// NewRedisClient returns nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logrus.WithField("addr", cfg.Addr).Info("Redis 연결 성공")
	return client, nil
}

type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProductCache) Get(ctx context.Context) ([]models.Product, bool) {
	data, err := c.rdb.Get(ctx, productListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("제품 캐시 조회 실패")
		}
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logrus.WithError(err).Warn("제품 캐시 데이터 손상")
		return nil, false
	}
	return products, true
}

func (c *RedisProductCache) Set(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productListKey, data, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("제품 캐시 저장 실패")
	}
}

func (c *RedisProductCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, productListKey).Err(); err != nil {
		logrus.WithError(err).Warn("제품 캐시 삭제 실패")
	}
}

// NoopProductCache is used when redis is not configured.
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context) ([]models.Product, bool) { return nil, false }
func (NoopProductCache) Set(context.Context, []models.Product)        {}
func (NoopProductCache) Invalidate(context.Context)                   {}

// New picks the redis-backed cache when a client is available.
func New(rdb *redis.Client, ttl time.Duration) ProductCache {
	if rdb == nil {
		return NoopProductCache{}
	}
	return NewRedisProductCache(rdb, ttl)
}
