package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kitabu-backend/internal/adapter/middleware"
	domainLedger "kitabu-backend/internal/domain/ledger"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/testutil/memstore"
	"kitabu-backend/internal/usecase/audit"
	"kitabu-backend/internal/usecase/expense"
	"kitabu-backend/internal/usecase/ledger"
	"kitabu-backend/internal/usecase/loan"
	"kitabu-backend/internal/usecase/partnership"
	"kitabu-backend/internal/usecase/project"
	"kitabu-backend/internal/usecase/registry"
	"kitabu-backend/internal/usecase/replication"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

var (
	officer  = tenant.Caller{UserID: "officer-1", Role: tenant.RoleVslaOfficer, TenantID: store.SeedTenantID}
	ngoAdmin = tenant.Caller{UserID: "admin-1", Role: tenant.RoleNGOAdmin, TenantID: store.SeedTenantID}
	sysAdmin = tenant.Caller{UserID: "root", Role: tenant.RoleSysAdmin}
	donor    = tenant.Caller{UserID: "donor-1", Role: tenant.RoleDonor, TenantID: "KYD001"}
	outsider = tenant.Caller{UserID: "admin-2", Role: tenant.RoleNGOAdmin, TenantID: "KYN0099"}
	viewer   = tenant.Caller{UserID: "m-1", Role: tenant.RoleMember, TenantID: store.SeedTenantID}
)

// funded gives mem_1 1,000 of savings (capacity 3,000) and leaves 30,000
// in the group fund.
func funded() *store.Snapshot {
	now := time.Now().UTC()
	s := store.Seed(now)
	for i, a := range []struct {
		member string
		amount float64
	}{{"mem_1", 1000}, {"mem_2", 29000}} {
		s.Transactions = append(s.Transactions, domainLedger.Transaction{
			ID: "seed-tx-" + string(rune('a'+i)), TenantID: store.SeedTenantID, VslaID: store.SeedVslaID,
			CycleID: store.SeedCycleID, MemberID: a.member, Type: domainLedger.TypeSavings, Amount: a.amount, Date: now,
		})
	}
	return s
}

func newTestAPI(t *testing.T, s *store.Snapshot, rdb redis.Cmdable) (*echo.Echo, *memstore.Store) {
	t.Helper()
	ms := memstore.New(s)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(middleware.Identity())

	rt := Routes{
		Health:   NewHandler(),
		Registry: NewRegistryHandler(registry.NewUsecase(ms, nil, log), log),
		Ledger:   NewLedgerHandler(ledger.NewUsecase(ms, nil, log), log),
		Loans:    NewLoanHandler(loan.NewUsecase(ms, nil, log), log),
		Expenses: NewExpenseHandler(expense.NewUsecase(ms, nil, log), log),
		Projects: NewProjectHandler(project.NewUsecase(ms, nil, log), partnership.NewUsecase(ms, nil, log), log),
		Audit:    NewAuditHandler(audit.NewUsecase(ms, nil, log), log),
		Sync:     NewSyncHandler(replication.NewSyncer(ms, nil, nil, replication.Config{}, nil, log), log),
	}
	if rdb != nil {
		rt.Idempotency = middleware.IdempotencyMiddleware(rdb, time.Minute, log)
	}
	rt.Register(e)
	return e, ms
}

func call(t *testing.T, e *echo.Echo, c tenant.Caller, method, path, body string, extra ...map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if c.Role != "" {
		req.Header.Set(middleware.HeaderRole, string(c.Role))
		req.Header.Set(middleware.HeaderUserID, c.UserID)
		req.Header.Set(middleware.HeaderTenantID, c.TenantID)
	}
	for _, h := range extra {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func expectCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestRoleGuards(t *testing.T) {
	e, _ := newTestAPI(t, funded(), nil)

	tests := []struct {
		name   string
		caller tenant.Caller
		method string
		path   string
		body   string
		want   int
	}{
		{"no identity", tenant.Caller{}, http.MethodGet, "/summary", "", http.StatusUnauthorized},
		{"unknown role", tenant.Caller{Role: "janitor"}, http.MethodGet, "/summary", "", http.StatusUnauthorized},
		{"member reads summary", viewer, http.MethodGet, "/summary", "", http.StatusOK},
		{"member cannot post", viewer, http.MethodPost, "/transactions", `{}`, http.StatusForbidden},
		{"ngo admin cannot create tenants", ngoAdmin, http.MethodPost, "/tenants", `{}`, http.StatusForbidden},
		{"officer cannot default", officer, http.MethodPost, "/loans/x/default", "", http.StatusForbidden},
		{"officer cannot fund", officer, http.MethodPost, "/partnerships/x/fund", `{"amount":1}`, http.StatusForbidden},
		{"health is public", tenant.Caller{}, http.MethodGet, "/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, call(t, e, tt.caller, tt.method, tt.path, tt.body), tt.want)
		})
	}
}

func TestRegistryRoutes(t *testing.T) {
	e, ms := newTestAPI(t, funded(), nil)

	rec := call(t, e, sysAdmin, http.MethodPost, "/tenants", `{"kind":"ngo","name":"Hope Trust","email":"hi@hope.org","country":"Kenya"}`)
	expectCode(t, rec, http.StatusCreated)
	if got := decodeBody(t, rec)["id"]; got != "KYN0002" {
		t.Fatalf("tenant id = %v", got)
	}

	rec = call(t, e, sysAdmin, http.MethodPost, "/tenants", `{"kind":"bank","name":"X"}`)
	expectCode(t, rec, http.StatusUnprocessableEntity)

	rec = call(t, e, ngoAdmin, http.MethodPost, "/vslas", `{"name":"Umoja","village":"Kisumu"}`)
	expectCode(t, rec, http.StatusCreated)
	vslaID, _ := decodeBody(t, rec)["id"].(string)
	if vslaID == "" {
		t.Fatalf("missing vsla id: %s", rec.Body.String())
	}

	expectCode(t, call(t, e, ngoAdmin, http.MethodPatch, "/vslas/"+vslaID+"/status", `{"status":"active"}`), http.StatusOK)
	expectCode(t, call(t, e, ngoAdmin, http.MethodPatch, "/vslas/"+vslaID+"/status", `{"status":"closed"}`), http.StatusUnprocessableEntity)
	expectCode(t, call(t, e, outsider, http.MethodPatch, "/vslas/"+vslaID+"/status", `{"status":"suspended"}`), http.StatusForbidden)
	expectCode(t, call(t, e, ngoAdmin, http.MethodPatch, "/vslas/missing/status", `{"status":"active"}`), http.StatusNotFound)

	rec = call(t, e, officer, http.MethodPost, "/vslas/"+vslaID+"/cycles", `{"name":"Cycle 1","start_date":"2024-01-01","share_price":100,"interest_rate":5}`)
	expectCode(t, rec, http.StatusCreated)
	expectCode(t, call(t, e, officer, http.MethodPost, "/vslas/"+vslaID+"/cycles", `{"name":"Bad","start_date":"01/01/2024","share_price":100}`), http.StatusUnprocessableEntity)

	rec = call(t, e, officer, http.MethodPost, "/members", `{"vsla_id":"`+vslaID+`","first_name":"Alice","last_name":"Wanjiru","national_id":"12345678","gender":"Female"}`)
	expectCode(t, rec, http.StatusCreated)
	if got := decodeBody(t, rec)["member_ky_id"]; got != "KYM0001" {
		t.Fatalf("re-enrolled member should keep KYM0001, got %v", got)
	}
	if n := len(ms.Snapshot().Members); n != 3 {
		t.Fatalf("members = %d, want 3", n)
	}
}

func TestTransactionRoutes(t *testing.T) {
	e, ms := newTestAPI(t, funded(), nil)

	expectCode(t, call(t, e, officer, http.MethodPost, "/transactions", `{"member_id":`), http.StatusBadRequest)

	rec := call(t, e, officer, http.MethodPost, "/transactions", `{"member_id":"mem_1","type":"deposit","amount":1.234}`)
	expectCode(t, rec, http.StatusUnprocessableEntity)
	var bad ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &bad); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !containsFieldMsg(bad.Details, "type", "known transaction type") || !containsFieldMsg(bad.Details, "amount", "2 decimal places") {
		t.Fatalf("details = %+v", bad.Details)
	}

	expectCode(t, call(t, e, outsider, http.MethodPost, "/transactions", `{"member_id":"mem_1","type":"savings","amount":50}`), http.StatusForbidden)
	expectCode(t, call(t, e, officer, http.MethodPost, "/transactions", `{"member_id":"nobody","type":"savings","amount":50}`), http.StatusNotFound)

	rec = call(t, e, officer, http.MethodPost, "/transactions", `{"member_id":"mem_1","type":"savings","amount":500,"date":"2024-03-01"}`)
	expectCode(t, rec, http.StatusCreated)
	txID, _ := decodeBody(t, rec)["id"].(string)

	rec = call(t, e, viewer, http.MethodGet, "/summary", "")
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["available_cash"]; got != 30500.0 {
		t.Fatalf("available_cash = %v", got)
	}

	expectCode(t, call(t, e, officer, http.MethodDelete, "/transactions/"+txID, ""), http.StatusOK)
	expectCode(t, call(t, e, officer, http.MethodDelete, "/transactions/"+txID, ""), http.StatusConflict)
	expectCode(t, call(t, e, officer, http.MethodDelete, "/transactions/missing", ""), http.StatusNotFound)

	if n := len(ms.Snapshot().Transactions); n != 3 {
		t.Fatalf("soft delete must keep the row, got %d transactions", n)
	}
}

func TestLoanRoutes(t *testing.T) {
	e, _ := newTestAPI(t, funded(), nil)

	rec := call(t, e, officer, http.MethodGet, "/members/mem_1/capacity", "")
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["capacity"]; got != 3000.0 {
		t.Fatalf("capacity = %v", got)
	}

	expectCode(t, call(t, e, officer, http.MethodPost, "/loans", `{"member_id":"mem_1","amount":50000,"duration_months":3}`), http.StatusUnprocessableEntity)

	rec = call(t, e, officer, http.MethodPost, "/loans", `{"member_id":"mem_1","amount":5000,"duration_months":3}`)
	expectCode(t, rec, http.StatusConflict)
	warn := decodeBody(t, rec)
	if warn["capacity"] != 3000.0 || warn["requested"] != 5000.0 {
		t.Fatalf("capacity warning = %v", warn)
	}

	rec = call(t, e, officer, http.MethodPost, "/loans", `{"member_id":"mem_1","amount":5000,"duration_months":3,"confirm_over_capacity":true}`)
	expectCode(t, rec, http.StatusCreated)
	issued := decodeBody(t, rec)
	loanID, _ := issued["loan_id"].(string)
	if issued["remaining_interest"] != 1500.0 || issued["status"] != "Active" {
		t.Fatalf("issued = %v", issued)
	}

	expectCode(t, call(t, e, viewer, http.MethodGet, "/loans/"+loanID, ""), http.StatusOK)
	expectCode(t, call(t, e, outsider, http.MethodGet, "/loans/"+loanID, ""), http.StatusForbidden)

	expectCode(t, call(t, e, officer, http.MethodPost, "/loans/"+loanID+"/repayments", `{"principal":0,"interest":0}`), http.StatusUnprocessableEntity)
	rec = call(t, e, officer, http.MethodPost, "/loans/"+loanID+"/repayments", `{"principal":1000,"interest":100}`)
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["remaining_principal"]; got != 4000.0 {
		t.Fatalf("remaining_principal = %v", got)
	}

	expectCode(t, call(t, e, ngoAdmin, http.MethodPost, "/loans/"+loanID+"/default", ""), http.StatusOK)
	expectCode(t, call(t, e, officer, http.MethodPost, "/loans/"+loanID+"/repayments", `{"principal":100}`), http.StatusConflict)
}

func TestExpenseRoutes(t *testing.T) {
	e, _ := newTestAPI(t, funded(), nil)

	rec := call(t, e, officer, http.MethodPost, "/expenses", `{"vsla_id":"KYV001","member_id":"mem_1","amount":1200,"description":"Stationery"}`)
	expectCode(t, rec, http.StatusCreated)
	exp := decodeBody(t, rec)
	expID, _ := exp["id"].(string)
	if exp["status"] != "Pending Approval" {
		t.Fatalf("expense = %v", exp)
	}

	expectCode(t, call(t, e, officer, http.MethodPost, "/expenses/"+expID+"/resolve", `{}`), http.StatusUnprocessableEntity)
	rec = call(t, e, officer, http.MethodPost, "/expenses/"+expID+"/resolve", `{"approved":true}`)
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["status"]; got != "Approved" {
		t.Fatalf("status = %v", got)
	}
	expectCode(t, call(t, e, officer, http.MethodPost, "/expenses/"+expID+"/resolve", `{"approved":false}`), http.StatusConflict)

	rec = call(t, e, officer, http.MethodGet, "/summary", "")
	if got := decodeBody(t, rec)["available_cash"]; got != 28800.0 {
		t.Fatalf("available_cash after expense = %v", got)
	}
}

func TestProjectAndPartnershipRoutes(t *testing.T) {
	e, _ := newTestAPI(t, funded(), nil)

	rec := call(t, e, officer, http.MethodPost, "/projects", `{"vsla_id":"KYV001","name":"Layers","capital_cost":1000,"category":"Poultry"}`)
	expectCode(t, rec, http.StatusCreated)
	projectID, _ := decodeBody(t, rec)["id"].(string)

	expectCode(t, call(t, e, officer, http.MethodPost, "/projects/"+projectID+"/transactions", `{"type":"Income","amount":1500}`), http.StatusCreated)
	expectCode(t, call(t, e, officer, http.MethodPost, "/projects/"+projectID+"/transactions", `{"type":"Refund","amount":5}`), http.StatusUnprocessableEntity)

	rec = call(t, e, viewer, http.MethodGet, "/projects/"+projectID+"/metrics", "")
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["profit"]; got != 1500.0 {
		t.Fatalf("profit = %v", got)
	}

	rec = call(t, e, officer, http.MethodPost, "/partnerships", `{"vsla_id":"KYV001","title":"Borehole","budget":2000}`)
	expectCode(t, rec, http.StatusCreated)
	pID, _ := decodeBody(t, rec)["id"].(string)

	rec = call(t, e, donor, http.MethodPost, "/partnerships/"+pID+"/fund", `{"amount":2000}`)
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["status"]; got != "Funded" {
		t.Fatalf("status = %v", got)
	}
	expectCode(t, call(t, e, donor, http.MethodPost, "/partnerships/"+pID+"/fund", `{"amount":10}`), http.StatusConflict)
	expectCode(t, call(t, e, donor, http.MethodPost, "/partnerships/missing/fund", `{"amount":10}`), http.StatusNotFound)
}

func TestScopeAuditAndSyncRoutes(t *testing.T) {
	e, _ := newTestAPI(t, funded(), nil)

	rec := call(t, e, outsider, http.MethodGet, "/scope", "")
	expectCode(t, rec, http.StatusOK)
	var view struct {
		Vslas   []any          `json:"vslas"`
		Summary map[string]any `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(view.Vslas) != 0 || view.Summary["available_cash"] != 0.0 {
		t.Fatalf("outsider leaked data: %s", rec.Body.String())
	}

	expectCode(t, call(t, e, donor, http.MethodGet, "/donor/metrics", ""), http.StatusOK)

	expectCode(t, call(t, e, officer, http.MethodPost, "/audit-logs", `{"action":"LOGIN","details":"signed in"}`), http.StatusCreated)
	rec = call(t, e, officer, http.MethodGet, "/audit-logs?limit=5", "")
	expectCode(t, rec, http.StatusOK)
	var logs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &logs); err != nil || len(logs) != 1 || logs[0]["action"] != "LOGIN" {
		t.Fatalf("audit logs = %s (err %v)", rec.Body.String(), err)
	}
	expectCode(t, call(t, e, officer, http.MethodGet, "/audit-logs?limit=x", ""), http.StatusBadRequest)

	rec = call(t, e, officer, http.MethodGet, "/sync/status", "")
	expectCode(t, rec, http.StatusOK)
	if got := decodeBody(t, rec)["enabled"]; got != false {
		t.Fatalf("enabled = %v", got)
	}
	expectCode(t, call(t, e, officer, http.MethodPost, "/sync", ""), http.StatusServiceUnavailable)
}

func TestIdempotentTransactionReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e, ms := newTestAPI(t, funded(), rdb)

	hdr := map[string]string{
		middleware.HeaderRequestID: "0123456789abcdef0123456789abcdef",
		middleware.HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
	body := `{"member_id":"mem_2","type":"fine","amount":50}`

	first := call(t, e, officer, http.MethodPost, "/transactions", body, hdr)
	expectCode(t, first, http.StatusCreated)
	second := call(t, e, officer, http.MethodPost, "/transactions", body, hdr)
	expectCode(t, second, http.StatusCreated)
	if second.Header().Get("Idempotent-Replayed") != "true" || second.Body.String() != first.Body.String() {
		t.Fatalf("second call was not a replay: %s", second.Body.String())
	}
	if n := len(ms.Snapshot().Transactions); n != 3 {
		t.Fatalf("transactions = %d, want 3", n)
	}

	expectCode(t, call(t, e, officer, http.MethodPost, "/transactions", body), http.StatusBadRequest)
	// reads bypass the middleware
	expectCode(t, call(t, e, officer, http.MethodGet, "/summary", ""), http.StatusOK)
}
