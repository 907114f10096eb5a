package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/paper"
)

func TestHome(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "principal", "principal123", true)

	t.Run("anonymous visitor gets the landing page", func(t *testing.T) {
		rec := app.get("/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Welcome to Global High School")
	})

	t.Run("signed-in faculty is sent to the dashboard", func(t *testing.T) {
		session := app.login(t, "principal", "principal123")
		rec := app.get("/", session)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/faculty/dashboard", rec.Header().Get("Location"))
	})
}

func TestPYQPCatalog(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	seed := []struct {
		subject string
		year    int
	}{
		{"Physics", 2022},
		{"Mathematics", 2023},
		{"Chemistry", 2021},
	}
	for _, s := range seed {
		_, err := app.paperRepo.CreatePaper(ctx, paper.Paper{
			Subject:    s.subject,
			Year:       s.year,
			Filename:   "p.pdf",
			FilePath:   "pyqp/p.pdf",
			UploadedBy: "faculty-1",
			UploadedAt: time.Now().UTC(),
			IsActive:   true,
		})
		require.NoError(t, err)
	}

	rec := app.get("/pyqp")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	// newest year first: Mathematics 2023, then Physics 2022, then Chemistry 2021
	iMaths := strings.Index(body, "Mathematics")
	iPhysics := strings.Index(body, "Physics")
	iChem := strings.Index(body, "Chemistry")
	require.True(t, iMaths >= 0 && iPhysics >= 0 && iChem >= 0)
	assert.Less(t, iMaths, iPhysics)
	assert.Less(t, iPhysics, iChem)
}

func TestContactForm(t *testing.T) {
	app := newTestApp(t)

	t.Run("page renders", func(t *testing.T) {
		rec := app.get("/contact")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid submission is accepted", func(t *testing.T) {
		rec := app.postForm(t, "/contact", url.Values{
			"name":    {"A Parent"},
			"email":   {"parent@example.test"},
			"subject": {"Admission enquiry"},
			"message": {"When do admissions open?"},
		})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/contact", rec.Header().Get("Location"))
	})

	t.Run("invalid submission bounces back with a notice", func(t *testing.T) {
		rec := app.postForm(t, "/contact", url.Values{
			"name":  {"A Parent"},
			"email": {"not-an-email"},
		})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/contact", rec.Header().Get("Location"))

		var flash *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == flashCookieName {
				flash = c
			}
		}
		require.NotNil(t, flash)
		assert.NotEmpty(t, flash.Value)
	})
}

func TestUnknownPageIs404(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}
