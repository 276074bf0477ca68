package middleware

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type Option func(*options)

type options struct {
	rate        rate.Limit
	burst       int
	authEnabled bool
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.rate = rate.Limit(perSecond)
		o.burst = burst
	}
}

func WithEducatorAuth(enabled bool) Option {
	return func(o *options) {
		o.authEnabled = enabled
	}
}

// OptionsFromEnv reads RATE_LIMIT_PER_SECOND, RATE_LIMIT_BURST and
// EDUCATOR_AUTH_ENABLED.
func OptionsFromEnv() []Option {
	opts := []Option{}
	if perSecond, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_PER_SECOND"), 64); err == nil && perSecond > 0 {
		burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
		if err != nil || burst <= 0 {
			burst = int(perSecond) * 2
		}
		opts = append(opts, WithRateLimit(perSecond, burst))
	}
	if enabled, err := strconv.ParseBool(os.Getenv("EDUCATOR_AUTH_ENABLED")); err == nil {
		opts = append(opts, WithEducatorAuth(enabled))
	}
	return opts
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	loggingMiddleware   *loggingMiddleware
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, opts ...Option) Middleware {
	o := options{rate: 50, burst: 100}
	for _, opt := range opts {
		opt(&o)
	}

	return &middleware{
		token:               newTokenMiddleware(o.authEnabled),
		rateLimitter:        newRateLimiter(o.rate, o.burst),
		loggingMiddleware:   newLoggingMiddleware(logger),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
