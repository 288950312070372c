package config

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-booking/internal/logger"
)

// RedisOptions builds client options from REDIS_ADDR (or REDIS_HOST and
// REDIS_PORT), REDIS_PASSWORD, REDIS_DB and REDIS_TLS.
func RedisOptions() *redis.Options {
	addr := os.Getenv("REDIS_ADDR")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			db = n
		}
	}
	opts := &redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects with RedisOptions and pings the server. It
// returns nil when the server is unreachable so callers can degrade.
func NewRedisClient() *redis.Client {
	opts := RedisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).WithField("addr", opts.Addr).Warn("redis unavailable")
		_ = client.Close()
		return nil
	}
	return client
}
