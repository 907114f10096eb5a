package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/member"
)

type memberRepository struct {
	db *DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) CreateMember(_ context.Context, m member.Member, _ ...core.DBExecutor) (member.Member, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	m.ID = newPK()
	repo.db.members[m.ID] = &m
	return m, nil
}

func (repo *memberRepository) QueryAllMembers(_ context.Context, _ ...core.DBExecutor) ([]member.Member, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	members := make([]member.Member, 0, len(repo.db.members))
	for _, m := range repo.db.members {
		members = append(members, *m)
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].CreatedAt.Before(members[j].CreatedAt) })
	return members, nil
}

func (repo *memberRepository) CountMembers(_ context.Context, _ ...core.DBExecutor) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.members), nil
}
