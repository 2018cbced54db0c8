package audit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainAudit "kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/tenant"
	"kitabu-backend/internal/domain/uow"
	"kitabu-backend/internal/usecase/scope"
)

var ErrInvalidAction = errors.New("audit action is required")

type Usecase struct {
	uow      uow.UnitOfWork
	notifier uow.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, n uow.Notifier, log *slog.Logger) *Usecase {
	if n == nil {
		n = uow.NopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, notifier: n, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Log appends a standalone event such as a login.
func (u *Usecase) Log(ctx context.Context, c tenant.Caller, action, details string) (*domainAudit.Log, error) {
	action = strings.ToUpper(strings.TrimSpace(action))
	if action == "" {
		return nil, ErrInvalidAction
	}
	entry := domainAudit.New(c.TenantID, c.Actor(), action, details, u.now())
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Audit.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	u.log.InfoContext(ctx, "audit logged", "tenant_id", entry.TenantID, "actor", entry.UserID, "action", entry.Action)
	u.notifier.Notify(entry.TenantID)
	return entry, nil
}

// List returns the caller's audit trail, most recent first.
func (u *Usecase) List(ctx context.Context, c tenant.Caller, limit int) ([]domainAudit.Log, error) {
	var snap *store.Snapshot
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Store.Load(ctx)
		snap = s
		return err
	})
	if err != nil {
		return nil, err
	}
	logs := scope.Filter(snap, c).AuditLogs
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
