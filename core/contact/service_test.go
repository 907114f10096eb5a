package contact_test

import (
	"context"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/contact"
	emailsvc "github.com/trezcool/shule/services/email"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	m.Run()
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:          "Shule",
		DefaultFromEmail: mail.Address{Name: "Shule", Address: "noreply@localhost"},
		ContactEmail:     mail.Address{Name: "School Office", Address: "office@localhost"},
	}
}

func TestService_Submit(t *testing.T) {
	conf := testConfig()
	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := contact.NewService(nil, inmemdb.NewContactRepository(db), mailSvc, conf)

	sentBefore := len(emailsvc.SentMessages)

	nm := contact.NewMessage{
		Name:    "A Parent",
		Email:   "parent@example.test",
		Subject: "Admission enquiry",
		Message: "When do admissions open?",
	}
	require.NoError(t, nm.Validate())

	msg, err := svc.Submit(context.Background(), nm)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "Admission enquiry", msg.Subject)
	assert.False(t, msg.CreatedAt.IsZero())

	// the office mailbox was notified
	require.Len(t, emailsvc.SentMessages, sentBefore+1)
	sent := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	assert.Equal(t, []mail.Address{conf.ContactEmail}, sent.To)
	assert.Equal(t, "New contact inquiry: Admission enquiry", sent.Subject)
	assert.Contains(t, sent.TextContent, "parent@example.test")
}

func TestNewMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		nm      contact.NewMessage
		wantErr bool
	}{
		{
			name: "ok",
			nm:   contact.NewMessage{Name: "X", Email: "x@test.cd", Subject: "Hi", Message: "Hello"},
		},
		{
			name:    "missing message",
			nm:      contact.NewMessage{Name: "X", Email: "x@test.cd", Subject: "Hi"},
			wantErr: true,
		},
		{
			name:    "bad email",
			nm:      contact.NewMessage{Name: "X", Email: "nope", Subject: "Hi", Message: "Hello"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nm.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
