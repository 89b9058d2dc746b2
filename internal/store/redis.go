package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisSlot stores each slot as a hash {value, version}.
type RedisSlot struct {
	rdb    *goredis.Client
	prefix string
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr, prefix string) (*RedisSlot, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis backend requires an address")
	}
	if prefix == "" {
		prefix = "ontap:"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSlot{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisSlot) key(k string) string {
	return r.prefix + k
}

// Get returns the entry stored under key.
func (r *RedisSlot) Get(ctx context.Context, key string) (Entry, error) {
	vals, err := r.rdb.HMGet(ctx, r.key(key), "value", "version").Result()
	if err != nil {
		return Entry{}, err
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return Entry{}, nil
	}
	value, _ := vals[0].(string)
	var version int64
	if raw, ok := vals[1].(string); ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to parse version of %s: %w", key, err)
		}
		version = v
	}
	return Entry{Value: value, Version: version}, nil
}

// Put writes value under key inside a WATCH transaction.
func (r *RedisSlot) Put(ctx context.Context, key, value string, expect int64) (int64, error) {
	k := r.key(key)
	var next int64
	err := r.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.HGet(ctx, k, "version").Int64()
		if errors.Is(err, goredis.Nil) {
			cur = 0
		} else if err != nil {
			return err
		}
		if expect != AnyVersion && cur != expect {
			return ErrVersionConflict
		}
		next = cur + 1
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.HSet(ctx, k, "value", value, "version", next)
			return nil
		})
		return err
	}, k)
	if errors.Is(err, goredis.TxFailedErr) {
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Close closes the client.
func (r *RedisSlot) Close() error {
	return r.rdb.Close()
}
