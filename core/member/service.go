package member

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
)

type (
	Repository interface {
		CreateMember(ctx context.Context, m Member, exec ...core.DBExecutor) (Member, error)
		QueryAllMembers(ctx context.Context, exec ...core.DBExecutor) ([]Member, error)
		CountMembers(ctx context.Context, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Member, error) {
	return svc.repo.QueryAllMembers(ctx)
}

func (svc *Service) Create(ctx context.Context, m Member) (Member, error) {
	var created Member
	err := core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		var err error
		created, err = svc.repo.CreateMember(ctx, m, tx)
		return err
	})
	return created, err
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountMembers(ctx)
}
