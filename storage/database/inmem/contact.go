package inmemdb

import (
	"context"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contact"
)

type contactRepository struct {
	db *DB
}

var _ contact.Repository = (*contactRepository)(nil)

func NewContactRepository(db *DB) contact.Repository {
	return &contactRepository{db: db}
}

func (repo *contactRepository) CreateMessage(_ context.Context, msg contact.Message, _ ...core.DBExecutor) (contact.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msg.ID = newPK()
	repo.db.messages[msg.ID] = &msg
	return msg, nil
}
