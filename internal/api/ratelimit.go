package api

import (
	"net"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

// rateLimited returns a guard that throttles an operation per client IP.
// The client address has already been normalized by chi's RealIP middleware.
func (s *Server) rateLimited(operation string) huma.Middlewares {
	if s.authRateLimiter == nil {
		return nil
	}

	return huma.Middlewares{func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.RemoteAddr())

		if !s.authRateLimiter.Allow(key) {
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"operation", operation,
			)
			if s.metrics != nil {
				s.metrics.RateLimited(operation)
			}
			limited := domainerrors.TooManyRequests(msgTooManyRequests)
			_ = huma.WriteErr(s.api, ctx, limited.HTTPStatus(), limited.Message, limited)
			return
		}

		next(ctx)
	}}
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
