package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/paper"
)

type paperRepository struct {
	db *DB
}

var _ paper.Repository = (*paperRepository)(nil)

func NewPaperRepository(db *DB) paper.Repository {
	return &paperRepository{db: db}
}

func (repo *paperRepository) CreatePaper(_ context.Context, p paper.Paper, _ ...core.DBExecutor) (paper.Paper, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = newPK()
	repo.db.papers[p.ID] = &p
	return p, nil
}

func (repo *paperRepository) GetPaperByID(_ context.Context, id string, _ ...core.DBExecutor) (paper.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.papers[id]; ok {
		return *p, nil
	}
	return paper.Paper{}, paper.ErrNotFound
}

func (repo *paperRepository) filter(filter paper.Filter) []paper.Paper {
	papers := make([]paper.Paper, 0, len(repo.db.papers))
	for _, p := range repo.db.papers {
		if filter.UploadedBy != "" && p.UploadedBy != filter.UploadedBy {
			continue
		}
		if filter.IsActive != nil && p.IsActive != *filter.IsActive {
			continue
		}
		papers = append(papers, *p)
	}
	return papers
}

func (repo *paperRepository) FilterPapers(_ context.Context, filter paper.Filter, _ ...core.DBExecutor) ([]paper.Paper, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	papers := repo.filter(filter)
	sort.SliceStable(papers, func(i, j int) bool {
		for _, ord := range filter.Ordering {
			var less, eq bool
			switch ord.Field {
			case "year":
				less, eq = papers[i].Year < papers[j].Year, papers[i].Year == papers[j].Year
			case "subject":
				less, eq = papers[i].Subject < papers[j].Subject, papers[i].Subject == papers[j].Subject
			case "uploaded_at":
				less, eq = papers[i].UploadedAt.Before(papers[j].UploadedAt), papers[i].UploadedAt.Equal(papers[j].UploadedAt)
			}
			if eq {
				continue
			}
			if ord.Ascending {
				return less
			}
			return !less
		}
		return false
	})
	if filter.Limit > 0 && len(papers) > filter.Limit {
		papers = papers[:filter.Limit]
	}
	return papers, nil
}

func (repo *paperRepository) CountPapers(_ context.Context, filter paper.Filter, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.filter(filter)), nil
}
