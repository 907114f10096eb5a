package contact

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/shule/core"
)

type (
	Repository interface {
		CreateMessage(ctx context.Context, msg Message, exec ...core.DBExecutor) (Message, error)
	}

	Service struct {
		db      core.DB
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(db core.DB, repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{db: db, repo: repo, mailSvc: mailSvc, conf: conf}
}

// Submit persists the inquiry and notifies the school office mailbox. The
// notification is sent after the commit; a mail failure does not undo the
// inquiry.
func (svc *Service) Submit(ctx context.Context, nm NewMessage) (Message, error) {
	msg := Message{
		Name:      nm.Name,
		Email:     nm.Email,
		Phone:     nm.Phone,
		Subject:   nm.Subject,
		Body:      nm.Message,
		CreatedAt: time.Now().UTC(),
	}

	err := core.RunInTx(ctx, svc.db, func(tx *sqlx.Tx) error {
		var err error
		msg, err = svc.repo.CreateMessage(ctx, msg, tx)
		return err
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "saving inquiry")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.conf.ContactEmail},
		Subject:      "New contact inquiry: " + msg.Subject,
		TemplateName: "contact_inquiry",
		TemplateData: nm,
	})
	return msg, nil
}
