package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wonny/ratioservice/pkg/config"
)

// 캐시 조회가 느리면 미스로 처리하고 DB로 넘어가도록 짧게 잡음
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// Client wraps the go-redis client.
// A disabled client turns every cache and rate-limit operation into a no-op.
// ⭐ SSOT: Redis 연결은 여기서만 관리
type Client struct {
	rdb     *redis.Client
	addr    string
	enabled bool
}

// New creates a client without connecting; use Ping to verify the server.
// REDIS_ENABLED=false 이면 비활성 클라이언트를 반환
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}
	if cfg.Redis.Host == "" {
		return nil, fmt.Errorf("redis enabled but REDIS_HOST is empty")
	}

	addr := fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port)
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	})

	return &Client{rdb: rdb, addr: addr, enabled: true}, nil
}

// Ping checks connectivity; a disabled client is always healthy
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", c.addr, err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

func (c *Client) Enabled() bool {
	return c.enabled
}

// Addr is host:port, empty when disabled
func (c *Client) Addr() string {
	return c.addr
}

// Redis returns the underlying client for cache and rate-limit commands
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
