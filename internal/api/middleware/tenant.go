package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nikolayk812/cartpromo/internal/api/web"
	"github.com/nikolayk812/cartpromo/internal/api/weberr"
	"github.com/nikolayk812/cartpromo/internal/domain"
)

const (
	TenantIDHeader = "X-Tenant-Id"

	maxTenantIDLength = 64
)

type tenantKeyCtx int

const tenantKey tenantKeyCtx = 1

// Tenant resolves the active tenant from the request header. Handlers read
// it with ContextTenantID and pass it explicitly to the services.
func Tenant() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			tenantID := strings.TrimSpace(r.Header.Get(TenantIDHeader))
			if tenantID == "" {
				return weberr.BadRequest(domain.ErrTenantIDEmpty)
			}
			if len(tenantID) > maxTenantIDLength {
				return weberr.BadRequest(fmt.Errorf("tenantID is longer than %d characters", maxTenantIDLength))
			}

			return handler(context.WithValue(ctx, tenantKey, tenantID), w, r)
		}
		return h
	}
	return m
}

func ContextTenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantKey).(string)
	return id
}
