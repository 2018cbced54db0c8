package middleware

import (
	"net/http"
	"strings"

	"kitabu-backend/internal/domain/tenant"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderRole     = "X-Role"
	HeaderTenantID = "X-Tenant-Id"

	callerKey = "caller"
)

// Identity reads the caller triple set by the upstream gateway. It never
// rejects; RequireCaller does.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			role := strings.ToLower(strings.TrimSpace(h.Get(HeaderRole)))
			role = strings.NewReplacer("-", "_", " ", "_").Replace(role)
			c.Set(callerKey, tenant.Caller{
				UserID:   strings.TrimSpace(h.Get(HeaderUserID)),
				Role:     tenant.Role(role),
				TenantID: strings.TrimSpace(h.Get(HeaderTenantID)),
			})
			return next(c)
		}
	}
}

// CallerFrom returns the identity stored by Identity.
func CallerFrom(c echo.Context) (tenant.Caller, bool) {
	caller, ok := c.Get(callerKey).(tenant.Caller)
	return caller, ok
}

// RequireCaller rejects requests without a known role.
func RequireCaller() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok || !caller.Role.Valid() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or unknown " + HeaderRole})
			}
			return next(c)
		}
	}
}

// RequireRole admits only the listed roles; super admins always pass.
func RequireRole(allowed ...tenant.Role) echo.MiddlewareFunc {
	set := make(map[tenant.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, _ := CallerFrom(c)
			if _, ok := set[caller.Role]; !ok && !caller.IsSuperAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role " + string(caller.Role) + " may not perform this action"})
			}
			return next(c)
		}
	}
}
