// Package inmemdb provides in-memory repositories for tests; every write
// ignores the executor arguments since there is no real transaction.
package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/contact"
	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users    map[string]*user.User
	papers   map[string]*paper.Paper
	entries  map[string]*audit.Entry
	messages map[string]*contact.Message
	members  map[string]*member.Member
}

func Open() *DB {
	return &DB{
		users:    make(map[string]*user.User),
		papers:   make(map[string]*paper.Paper),
		entries:  make(map[string]*audit.Entry),
		messages: make(map[string]*contact.Message),
		members:  make(map[string]*member.Member),
	}
}

func newPK() string { return uuid.New().String() }
