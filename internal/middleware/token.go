package middleware

import (
	"ProctorGuard/pkg/handlerUtil"
	jwtPkg "ProctorGuard/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type tokenMiddleware struct {
	enabled bool
}

func newTokenMiddleware(enabled bool) *tokenMiddleware {
	return &tokenMiddleware{enabled: enabled}
}

// NewTokenMiddleware guards educator routes with a bearer token. It lets every
// request through when educator auth is disabled.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if !m.token.enabled {
		return ctx.Next()
	}

	claims, err := jwtPkg.VerifyTokenHeader(ctx)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"client_ip": ctx.IP(),
			"error":     err.Error(),
		}).Debug("Token verification failed")
		return handlerUtil.New(m.log).HandleUnauthorized(ctx, m.GetRequestID(ctx), "access token invalid or expired")
	}

	ctx.Locals(jwtPkg.EducatorLocalKey, claims)

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"educator":   claims.Username,
	}).Debug("Authentication successful")
	return ctx.Next()
}
