package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis with a registry of named Lua scripts. Scripts are the
// only way this codebase mutates shared counters in Redis, because EVALSHA
// gives us the check-and-mutate atomicity the callers rely on.
type Client struct {
	rdb     *redis.Client
	scripts map[string]*redis.Script
}

func NewClient(addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &Client{
		rdb:     rdb,
		scripts: make(map[string]*redis.Script),
	}, nil
}

// LoadScriptFromContent registers a Lua script under a name for later RunScript calls.
func (c *Client) LoadScriptFromContent(name, content string) error {
	if _, exists := c.scripts[name]; exists {
		return fmt.Errorf("script %q already registered", name)
	}
	c.scripts[name] = redis.NewScript(content)
	return nil
}

// RunScript executes a previously registered script.
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	script, ok := c.scripts[name]
	if !ok {
		return nil, fmt.Errorf("script %q not registered", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

// GetClient exposes the raw go-redis client for plain commands.
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
