// Package bootstrap brings the local store to a safe state at start.
package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"kitabu-backend/internal/domain/audit"
	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/uow"
)

type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
	OriginSeed   Origin = "seed"
)

// Source is the remote replica. A nil snapshot means nothing usable.
type Source interface {
	FetchLatest(ctx context.Context, tenantID string) (*store.Snapshot, error)
}

type Usecase struct {
	uow      uow.UnitOfWork
	source   Source
	notifier uow.Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, src Source, n uow.Notifier, log *slog.Logger) *Usecase {
	if n == nil {
		n = uow.NopNotifier{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{uow: tx, source: src, notifier: n, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Init keeps a populated store as is. An empty one is filled from the
// remote replica of tenantID when it has a well-formed snapshot, else from
// the built-in seed. Remote errors fall back to the seed.
func (u *Usecase) Init(ctx context.Context, tenantID string) (Origin, error) {
	var current *store.Snapshot
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		current, err = r.Store.Load(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	if !current.Empty() {
		return OriginLocal, nil
	}

	origin, snap := OriginSeed, store.Seed(u.now())
	if u.source != nil {
		remote, err := u.source.FetchLatest(ctx, tenantID)
		switch {
		case err != nil:
			u.log.Warn("remote snapshot unavailable, using seed", "tenant_id", tenantID, "err", err)
		case remote != nil && !remote.Empty():
			origin, snap = OriginRemote, remote.Normalize()
		}
	}

	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Store.Replace(ctx, snap)
	}); err != nil {
		return "", err
	}
	u.log.Info("store initialised", "origin", origin, "tenants", len(snap.Tenants), "vslas", len(snap.Vslas))
	return origin, nil
}

// Reset wipes every collection and re-seeds. The reset itself is audited.
func (u *Usecase) Reset(ctx context.Context) error {
	now := u.now()
	seed := store.Seed(now)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Store.Replace(ctx, seed); err != nil {
			return err
		}
		return r.Audit.Create(ctx, audit.New(store.SeedTenantID, audit.SystemActor, audit.ActionStoreReset, "Local store wiped and re-seeded", now))
	})
	if err != nil {
		return err
	}
	u.log.Warn("store reset to seed")
	u.notifier.Notify(store.SeedTenantID)
	return nil
}
