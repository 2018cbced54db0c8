package http

import (
	"kitabu-backend/internal/adapter/middleware"
	"kitabu-backend/internal/domain/tenant"

	"github.com/labstack/echo/v4"
)

// Routes groups the handlers mounted by Register.
type Routes struct {
	Health      *Handler
	Metrics     echo.HandlerFunc
	Registry    *RegistryHandler
	Ledger      *LedgerHandler
	Loans       *LoanHandler
	Expenses    *ExpenseHandler
	Projects    *ProjectHandler
	Audit       *AuditHandler
	Sync        *SyncHandler
	Idempotency echo.MiddlewareFunc // nil disables replay protection
}

var (
	admins   = []tenant.Role{tenant.RoleSysAdmin, tenant.RoleNGOAdmin}
	officers = []tenant.Role{tenant.RoleSysAdmin, tenant.RoleNGOAdmin, tenant.RoleFieldOfficer, tenant.RoleVslaOfficer}
)

// Register mounts the API. The caller must have installed middleware.Identity.
func (rt Routes) Register(e *echo.Echo) {
	e.GET("/health", rt.Health.Health)
	if rt.Metrics != nil {
		e.GET("/metrics", rt.Metrics)
	}

	api := e.Group("", middleware.RequireCaller())

	// mutating routes get replay protection when enabled
	w := func(roles ...tenant.Role) []echo.MiddlewareFunc {
		m := []echo.MiddlewareFunc{middleware.RequireRole(roles...)}
		if rt.Idempotency != nil {
			m = append(m, rt.Idempotency)
		}
		return m
	}
	anyRole := func() []echo.MiddlewareFunc {
		if rt.Idempotency != nil {
			return []echo.MiddlewareFunc{rt.Idempotency}
		}
		return nil
	}

	// registry
	api.POST("/tenants", rt.Registry.CreateTenant, w(tenant.RoleSysAdmin)...)
	api.POST("/vslas", rt.Registry.CreateVsla, w(admins...)...)
	api.PATCH("/vslas/:vsla_id/status", rt.Registry.SetVslaStatus, w(admins...)...)
	api.POST("/vslas/:vsla_id/cycles", rt.Registry.OpenCycle, w(officers...)...)
	api.POST("/members", rt.Registry.EnrollMember, w(officers...)...)
	api.GET("/members/:member_id/capacity", rt.Loans.Capacity)

	// ledger
	api.POST("/transactions", rt.Ledger.AddTransaction, w(officers...)...)
	api.DELETE("/transactions/:tx_id", rt.Ledger.DeleteTransaction, w(officers...)...)
	api.GET("/summary", rt.Ledger.Summary)
	api.GET("/scope", rt.Ledger.Scope)
	api.GET("/donor/metrics", rt.Ledger.DonorMetrics)

	// loans
	api.POST("/loans", rt.Loans.IssueLoan, w(officers...)...)
	api.GET("/loans/:loan_id", rt.Loans.GetLoan)
	api.POST("/loans/:loan_id/repayments", rt.Loans.Repay, w(officers...)...)
	api.POST("/loans/:loan_id/default", rt.Loans.MarkDefaulted, w(admins...)...)

	// expenses
	api.POST("/expenses", rt.Expenses.Request, w(officers...)...)
	api.POST("/expenses/:expense_id/resolve", rt.Expenses.Resolve, w(officers...)...)

	// projects and partnerships
	api.POST("/projects", rt.Projects.CreateProject, w(officers...)...)
	api.POST("/projects/:project_id/transactions", rt.Projects.PostTransaction, w(officers...)...)
	api.GET("/projects/:project_id/metrics", rt.Projects.Metrics)
	api.POST("/partnerships", rt.Projects.PostPartnership, w(officers...)...)
	api.POST("/partnerships/:partnership_id/fund", rt.Projects.Fund, w(tenant.RoleDonor)...)

	// audit
	api.GET("/audit-logs", rt.Audit.List)
	api.POST("/audit-logs", rt.Audit.Log, anyRole()...)

	// sync
	api.POST("/sync", rt.Sync.SyncNow, middleware.RequireRole(officers...))
	api.GET("/sync/status", rt.Sync.Status)
}
