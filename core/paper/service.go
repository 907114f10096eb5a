package paper

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
)

var ErrNotFound = errors.New("paper not found")

// CatalogOrdering is the public catalog order: newest year first, subjects
// alphabetical within a year.
var CatalogOrdering = []core.DBOrdering{
	{Field: "year", Ascending: false},
	{Field: "subject", Ascending: true},
}

// RecentOrdering backs the dashboards' recent-upload lists.
var RecentOrdering = []core.DBOrdering{
	{Field: "uploaded_at", Ascending: false},
}

type (
	Repository interface {
		CreatePaper(ctx context.Context, p Paper, exec ...core.DBExecutor) (Paper, error)
		GetPaperByID(ctx context.Context, id string, exec ...core.DBExecutor) (Paper, error)
		FilterPapers(ctx context.Context, filter Filter, exec ...core.DBExecutor) ([]Paper, error)
		CountPapers(ctx context.Context, filter Filter, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Record catalogs one uploaded paper. The subject choice is resolved to its
// final label here, before anything is persisted.
func (svc *Service) Record(ctx context.Context, np NewPaper) (Paper, error) {
	if err := np.Validate(); err != nil {
		return Paper{}, err
	}

	p := Paper{
		Subject:     np.Subject.Value(),
		Year:        np.Year,
		Filename:    np.Filename,
		FilePath:    np.FilePath,
		Description: np.Description,
		UploadedBy:  np.UploadedBy,
		UploadedAt:  time.Now().UTC(),
		IsActive:    true,
		FileSize:    np.FileSize,
	}

	err := core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		var err error
		p, err = svc.repo.CreatePaper(ctx, p, tx)
		return err
	})
	if err != nil {
		return Paper{}, pkgerrors.Wrap(err, "recording paper")
	}
	return p, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Paper, error) {
	return svc.repo.GetPaperByID(ctx, id)
}

// ListActive returns the public catalog, ordered year desc then subject asc.
func (svc *Service) ListActive(ctx context.Context) ([]Paper, error) {
	active := true
	return svc.repo.FilterPapers(ctx, Filter{IsActive: &active, Ordering: CatalogOrdering})
}

// ListByOwner returns an account's own uploads, most recent first.
func (svc *Service) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Paper, error) {
	return svc.repo.FilterPapers(ctx, Filter{UploadedBy: ownerID, Limit: limit, Ordering: RecentOrdering})
}

func (svc *Service) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return svc.repo.CountPapers(ctx, Filter{UploadedBy: ownerID})
}

func (svc *Service) CountAll(ctx context.Context) (int, error) {
	return svc.repo.CountPapers(ctx, Filter{})
}

// GroupBySubject buckets catalog papers per subject, keeping the incoming
// order within each bucket and returning subjects in first-seen order.
func GroupBySubject(papers []Paper) ([]string, map[string][]Paper) {
	subjects := make([]string, 0)
	grouped := make(map[string][]Paper)
	for _, p := range papers {
		if _, ok := grouped[p.Subject]; !ok {
			subjects = append(subjects, p.Subject)
		}
		grouped[p.Subject] = append(grouped[p.Subject], p)
	}
	return subjects, grouped
}
