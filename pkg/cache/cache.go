package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ==================== 接口定义 ====================

// SnapshotCache 快照缓存接口
// 用于缓存每个卖家的订单对账结果，避免每次都打全量查询
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Sweep 清理已过期的条目（Redis 自带过期，实现可为空操作）
	Sweep(ctx context.Context) int
}

// ==================== 配置与工厂 ====================

// Config 缓存配置
type Config struct {
	Provider      string // "memory" | "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// New 按配置创建缓存实例
func New(cfg *Config) (SnapshotCache, error) {
	switch cfg.Provider {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		return NewRedisCache(client, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("不支持的缓存提供者: %s", cfg.Provider)
	}
}

// ==================== 内存实现 ====================

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      []byte
	expiration int64
}

// MemoryCache 进程内缓存，sync.Map 保证并发安全
type MemoryCache struct {
	store sync.Map
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false, nil
	}

	item := val.(cacheItem)

	// 懒删除
	if time.Now().UnixNano() > item.expiration {
		c.store.Delete(key)
		return nil, false, nil
	}
	return item.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.Store(key, cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

// Sweep 遍历并删除已过期条目，返回删除数量
func (c *MemoryCache) Sweep(_ context.Context) int {
	now := time.Now().UnixNano()
	removed := 0
	c.store.Range(func(key, val interface{}) bool {
		if item, ok := val.(cacheItem); ok && now > item.expiration {
			c.store.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// ==================== Redis 实现 ====================

// RedisCache Redis 缓存
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache 创建 Redis 缓存
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "seller-panel:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Sweep Redis 依赖原生 TTL 过期，无需主动清理
func (c *RedisCache) Sweep(_ context.Context) int {
	return 0
}
