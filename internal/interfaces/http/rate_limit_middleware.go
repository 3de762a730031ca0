package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/interfaces/http/metrics"
)

// attemptLimiter lo implementa *redis.Limiter.
type attemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// LoginRateLimiter limita los intentos de login por IP. Con limiter nil no limita.
// Si Redis falla la petición pasa: el limitador no debe tumbar el login.
func LoginRateLimiter(limiter attemptLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		ok, retryAfter, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("limitador de login no disponible")
			return c.Next()
		}
		if !ok {
			metrics.RateLimitedTotal.WithLabelValues("login").Inc()
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "TOO_MANY_REQUESTS",
				Message: "demasiados intentos de login, intente en " + strconv.Itoa(secs) + " segundos",
			})
		}
		return c.Next()
	}
}
