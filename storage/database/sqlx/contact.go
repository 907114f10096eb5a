package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contact"
)

const contactTable = "contact_message"

type contactRepository struct {
	exec core.DBExecutor
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(exec core.DBExecutor) *contactRepository {
	return &contactRepository{exec: exec}
}

func (repo contactRepository) CreateMessage(ctx context.Context, msg contact.Message, exec ...core.DBExecutor) (contact.Message, error) {
	msg.ID = uuid.New().String()

	query, args, err := psql.Insert(contactTable).
		Columns("id", "name", "email", "phone", "subject", "message", "created_at", "is_read", "replied_at", "reply_message").
		Values(
			msg.ID, msg.Name, msg.Email, msg.Phone, msg.Subject, msg.Body, msg.CreatedAt,
			msg.IsRead, null.NewTime(msg.RepliedAt, !msg.RepliedAt.IsZero()), msg.ReplyMessage,
		).ToSql()
	if err != nil {
		return contact.Message{}, errors.Wrap(err, "building inquiry insert")
	}

	if _, err = getExec(repo.exec, exec).ExecContext(ctx, query, args...); err != nil {
		return contact.Message{}, errors.Wrap(err, "inserting inquiry")
	}
	return msg, nil
}
