package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter ventana fija por clave: INCR del contador y EXPIRE al abrir la ventana.
// Key format: ratelimit:<scope>:<key>
type Limiter struct {
	client *redis.Client
	scope  string
	limit  int
	window time.Duration
}

// NewLimiter construye un limitador de limit intentos por window.
func NewLimiter(client *redis.Client, scope string, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, scope: scope, limit: limit, window: window}
}

// Allow registra un intento para key. Devuelve false y el tiempo restante de la ventana
// cuando ya se superó el límite.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.key(key)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit: %w", err)
		}
	}
	if n <= int64(l.limit) {
		return true, 0, nil
	}
	ttl, err := l.client.TTL(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit: %w", err)
	}
	return false, ttl, nil
}

// Reset borra el contador de key (ej. tras un login correcto).
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

func (l *Limiter) key(key string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.scope, key)
}
