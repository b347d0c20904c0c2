package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Options describes how to reach a redis instance. Zero timeouts and pool size
// fall back to the package defaults.
type Options struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ClientOptions validates o and converts it to go-redis options.
func (o Options) ClientOptions() (*redis.Options, error) {
	addr := strings.TrimSpace(o.Addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}
	if o.DB < 0 {
		return nil, fmt.Errorf("redis: negative db index %d", o.DB)
	}
	if o.PoolSize < 0 {
		return nil, fmt.Errorf("redis: negative pool size %d", o.PoolSize)
	}

	return &redis.Options{
		Addr:         addr,
		Password:     o.Password,
		DB:           o.DB,
		PoolSize:     o.PoolSize,
		DialTimeout:  orDefault(o.DialTimeout, defaultDialTimeout),
		ReadTimeout:  orDefault(o.ReadTimeout, defaultReadTimeout),
		WriteTimeout: orDefault(o.WriteTimeout, defaultWriteTimeout),
	}, nil
}

// Connect opens a client and waits for a PING, bounded by ctx and the dial timeout.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	clientOpts, err := opts.ClientOptions()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(clientOpts)

	pingCtx, cancel := context.WithTimeout(ctx, clientOpts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", clientOpts.Addr, err)
	}
	return client, nil
}

// Pinger exposes a client to health checks that expect PingContext.
type Pinger struct {
	Client redis.UniversalClient
}

// PingContext issues a PING.
func (p Pinger) PingContext(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
