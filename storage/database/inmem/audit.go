package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/audit"
)

type auditRepository struct {
	db *DB

	// FailNext makes the next write fail with the given error; lets tests
	// exercise the best-effort contract.
	FailNext error
}

var _ audit.Repository = (*auditRepository)(nil)

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) CreateEntry(_ context.Context, e audit.Entry, _ ...core.DBExecutor) (audit.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.FailNext != nil {
		err := repo.FailNext
		repo.FailNext = nil
		return audit.Entry{}, err
	}

	e.ID = newPK()
	repo.db.entries[e.ID] = &e
	return e, nil
}

func (repo *auditRepository) RecentEntriesByActor(_ context.Context, actorID string, limit int, _ ...core.DBExecutor) ([]audit.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]audit.Entry, 0)
	for _, e := range repo.db.entries {
		if e.ActorID == actorID {
			entries = append(entries, *e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
