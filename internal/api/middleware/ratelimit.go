package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/nikolayk812/cartpromo/internal/api/web"
	"github.com/nikolayk812/cartpromo/internal/api/weberr"
	"github.com/nikolayk812/cartpromo/internal/rate"
)

// RateLimit rejects clients, keyed by tenant and remote host, that exceed
// the limiter budget.
func RateLimit(limiter *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiter.Check(ContextTenantID(ctx) + "|" + host) {
				return weberr.TooManyRequests(errors.New("client exceeded rate limit"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
