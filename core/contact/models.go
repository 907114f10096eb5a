package contact

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Message is one inquiry submitted through the public contact form.
type Message struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Subject      string
	Body         string
	CreatedAt    time.Time // UTC
	IsRead       bool
	RepliedAt    time.Time // zero until a reply is sent; no reply surface exists yet
	ReplyMessage string
}

// NewMessage is the contact form payload.
type NewMessage struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone"`
	Subject string `form:"subject" validate:"required"`
	Message string `form:"message" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Name = core.CleanString(nm.Name)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Phone = core.CleanString(nm.Phone)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Message = core.CleanString(nm.Message)
	return core.Validate.Struct(nm)
}
