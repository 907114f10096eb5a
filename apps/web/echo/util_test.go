package echoweb

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/contact"
	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/files"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	m.Run()
}

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

// testApp bundles the server under test with direct handles on its fakes.
type testApp struct {
	server    Server
	conf      *core.Config
	db        *inmemdb.DB
	usrRepo   user.Repository
	paperRepo paper.Repository
	auditSvc  *audit.Service
	files     *files.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		Debug:                  true,
		TestMode:               true,
		Env:                    "TEST",
		AppName:                "Shule",
		SecretKey:              "secret",
		SessionExpirationDelta: time.Hour,
		DefaultFromEmail:       mail.Address{Name: "Shule", Address: "noreply@localhost"},
		ContactEmail:           mail.Address{Name: "School Office", Address: "office@localhost"},
		Upload:                 core.UploadConfig{Root: t.TempDir(), MaxSize: "16M"},
	}

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	paperRepo := inmemdb.NewPaperRepository(db)
	auditSvc := audit.NewService(nil, inmemdb.NewAuditRepository(db), testLogger{})

	fileStore, err := files.NewStore(conf.Upload.Root)
	require.NoError(t, err)

	srv, err := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{},
		UserSvc:    user.NewService(nil, usrRepo),
		PaperSvc:   paper.NewService(nil, paperRepo),
		AuditSvc:   auditSvc,
		ContactSvc: contact.NewService(nil, inmemdb.NewContactRepository(db), emailsvc.NewConsoleServiceMock(conf), conf),
		MemberSvc:  member.NewService(nil, inmemdb.NewMemberRepository(db)),
		Files:      fileStore,
	})
	require.NoError(t, err)

	return &testApp{
		server:    srv,
		conf:      conf,
		db:        db,
		usrRepo:   usrRepo,
		paperRepo: paperRepo,
		auditSvc:  auditSvc,
		files:     fileStore,
	}
}

func (app *testApp) createUser(t *testing.T, uname, pwd string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Username:  uname,
		Email:     uname + "@school.test",
		Name:      "Test " + uname,
		Role:      user.RoleFaculty,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := app.usrRepo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

// login runs the real login flow and returns the session cookie it produced.
func (app *testApp) login(t *testing.T, uname, pwd string) *http.Cookie {
	t.Helper()
	rec := app.postForm(t, "/faculty/login", url.Values{"username": {uname}, "password": {pwd}})
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login(%s) did not set a session cookie", uname)
	return nil
}

func (app *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) postUpload(
	t *testing.T,
	fields map[string]string,
	fileName string,
	content []byte,
	cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("pdf", fileName)
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/faculty/upload_pyqp", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}
