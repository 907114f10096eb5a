package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry, exec ...core.DBExecutor) (Entry, error)
		RecentEntriesByActor(ctx context.Context, actorID string, limit int, exec ...core.DBExecutor) ([]Entry, error)
	}

	Service struct {
		db     core.DB
		repo   Repository
		logger core.Logger
	}
)

func NewService(db core.DB, repo Repository, logger core.Logger) *Service {
	return &Service{db: db, repo: repo, logger: logger}
}

// Record appends one audit entry. It is best-effort: a persistence failure is
// logged and returned, and callers are expected to drop the error on purpose;
// a failed audit write must never abort the action that triggered it.
func (svc *Service) Record(ctx context.Context, actorID, action, details, ipAddress, userAgent string) error {
	e := Entry{
		ActorID:   actorID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}

	err := core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		_, err := svc.repo.CreateEntry(ctx, e, tx)
		return err
	})
	if err != nil {
		err = errors.Wrap(err, "recording audit entry")
		svc.logger.Error(fmt.Sprintf("audit: %v", err), err)
		return err
	}
	return nil
}

// RecentByActor returns an account's latest entries, newest first.
func (svc *Service) RecentByActor(ctx context.Context, actorID string, limit int) ([]Entry, error) {
	return svc.repo.RecentEntriesByActor(ctx, actorID, limit)
}
