package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"kitabu-backend/internal/domain/tenant"

	"github.com/labstack/echo/v4"
)

func TestIdentity_ParsesHeaders(t *testing.T) {
	e := echo.New()
	var got tenant.Caller
	e.Use(Identity())
	e.GET("/me", func(c echo.Context) error {
		got, _ = CallerFrom(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderUserID, " u1 ")
	req.Header.Set(HeaderRole, "NGO-Admin")
	req.Header.Set(HeaderTenantID, "KYN0001")
	e.ServeHTTP(httptest.NewRecorder(), req)

	want := tenant.Caller{UserID: "u1", Role: tenant.RoleNGOAdmin, TenantID: "KYN0001"}
	if got != want {
		t.Fatalf("caller = %+v, want %+v", got, want)
	}
}

func TestRequireCallerAndRole(t *testing.T) {
	e := echo.New()
	e.Use(Identity(), RequireCaller())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/any", ok)
	e.POST("/fund", ok, RequireRole(tenant.RoleDonor))

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"no role", http.MethodGet, "/any", "", http.StatusUnauthorized},
		{"unknown role", http.MethodGet, "/any", "wizard", http.StatusUnauthorized},
		{"known role", http.MethodGet, "/any", "member", http.StatusNoContent},
		{"donor allowed", http.MethodPost, "/fund", "donor", http.StatusNoContent},
		{"super admin bypass", http.MethodPost, "/fund", "super_admin", http.StatusNoContent},
		{"officer forbidden", http.MethodPost, "/fund", "vsla_officer", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set(HeaderRole, tt.role)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("code = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
