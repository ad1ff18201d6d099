package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout       = 5 * time.Second
	defaultClientName = "doable"
)

// Config selects the Redis server backing the change feed, auth events and
// session revocations. URL, when set, wins over Addr and DB; the credentials
// and client name still apply on top of it.
type Config struct {
	URL        string
	Addr       string
	DB         int
	Username   string
	Password   string
	ClientName string
	Timeout    time.Duration
}

// options resolves cfg into client options without dialing.
func (c Config) options() (*redis.Options, error) {
	opts := &redis.Options{Addr: c.Addr, DB: c.DB}
	if c.URL != "" {
		parsed, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		opts = parsed
	}
	if c.Username != "" {
		opts.Username = c.Username
	}
	if c.Password != "" {
		opts.Password = c.Password
	}
	opts.ClientName = c.ClientName
	if opts.ClientName == "" {
		opts.ClientName = defaultClientName
	}
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	return opts, nil
}

// Connect opens a client for cfg and pings it so a bad address or password
// fails at startup instead of on the first publish.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}
