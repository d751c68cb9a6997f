// Package cache хранит в Redis отозванные сессии: после выхода идентификатор
// токена помещается в Redis до истечения срока действия токена.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/commission-ledger/internal/config"
)

const revokedPrefix = "session:revoked:"

// Cache: клиент Redis для хранения отозванных сессий.
type Cache struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// RevokeSession помечает токен отозванным на время ttl.
// Токен с истёкшим сроком действия не сохраняется.
func (c *Cache) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "cache.RevokeSession"
	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsSessionRevoked сообщает, был ли токен отозван.
func (c *Cache) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.IsSessionRevoked"
	err := c.Db.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Close закрывает соединение с Redis.
func (c *Cache) Close() error {
	return c.Db.Close()
}
