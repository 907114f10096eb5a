package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
)

var pdfContent = []byte("%PDF-1.4 test content")

func TestDashboard(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "principal", "principal123", true)
	session := app.login(t, "principal", "principal123")

	rec := app.get("/faculty/dashboard", session)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Test principal")
}

func TestUploadPYQP(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "maths", "maths123", true)
	session := app.login(t, "maths", "maths123")
	ctx := context.Background()

	listOwn := func(t *testing.T) []paper.Paper {
		t.Helper()
		papers, err := app.paperRepo.FilterPapers(ctx, paper.Filter{UploadedBy: usr.ID})
		require.NoError(t, err)
		return papers
	}

	t.Run("valid pdf is stored and cataloged", func(t *testing.T) {
		rec := app.postUpload(t, map[string]string{
			"subject":     "Mathematics",
			"year":        "2023",
			"description": "Final exam",
		}, "algebra final 2023.pdf", pdfContent, session)
		require.Equal(t, http.StatusFound, rec.Code)

		papers := listOwn(t)
		require.Len(t, papers, 1)
		p := papers[0]
		assert.Equal(t, "Mathematics", p.Subject)
		assert.Equal(t, 2023, p.Year)
		assert.Equal(t, "algebra_final_2023.pdf", p.Filename)
		assert.True(t, strings.HasPrefix(p.FilePath, "pyqp/"))
		assert.True(t, strings.HasSuffix(p.FilePath, "_algebra_final_2023.pdf"))
		assert.Equal(t, int64(len(pdfContent)), p.FileSize)

		// the bytes are on disk under the upload root
		assert.True(t, app.files.Exists(p.FilePath))

		entries, err := app.auditSvc.RecentByActor(ctx, usr.ID, 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, audit.ActionUploadPYQP, entries[0].Action)
	})

	t.Run("custom subject replaces the Other choice", func(t *testing.T) {
		rec := app.postUpload(t, map[string]string{
			"subject":        "Other",
			"custom_subject": "Robotics",
			"year":           "2022",
		}, "robotics.pdf", pdfContent, session)
		require.Equal(t, http.StatusFound, rec.Code)

		papers := listOwn(t)
		var found bool
		for _, p := range papers {
			if p.Subject == "Robotics" && p.Year == 2022 {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("non-pdf extension is rejected before anything is written", func(t *testing.T) {
		before := len(listOwn(t))

		rec := app.postUpload(t, map[string]string{
			"subject": "Physics",
			"year":    "2023",
		}, "paper.docx", pdfContent, session)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/faculty/upload_pyqp", rec.Header().Get("Location"))

		assert.Len(t, listOwn(t), before, "nothing may be cataloged")
	})

	t.Run("missing file", func(t *testing.T) {
		before := len(listOwn(t))

		rec := app.postUpload(t, map[string]string{
			"subject": "Physics",
			"year":    "2023",
		}, "", nil, session)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Len(t, listOwn(t), before)
	})

	t.Run("invalid year", func(t *testing.T) {
		before := len(listOwn(t))

		rec := app.postUpload(t, map[string]string{
			"subject": "Physics",
			"year":    "99",
		}, "physics.pdf", pdfContent, session)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Len(t, listOwn(t), before)
	})
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t)
	usr := app.createUser(t, "principal", "principal123", true)
	session := app.login(t, "principal", "principal123")
	ctx := context.Background()

	t.Run("profile fields", func(t *testing.T) {
		rec := app.postForm(t, "/faculty/profile", url.Values{
			"name":       {"Dr. Rajesh Kumar"},
			"email":      {"principal@school.test"},
			"phone":      {"98765"},
			"department": {"Administration"},
		}, session)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/faculty/profile", rec.Header().Get("Location"))

		refreshed, err := app.usrRepo.GetUser(ctx, user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.Equal(t, "Dr. Rajesh Kumar", refreshed.Name)
		assert.Equal(t, "98765", refreshed.Phone)

		entries, err := app.auditSvc.RecentByActor(ctx, usr.ID, 10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, audit.ActionUpdateProfile, entries[0].Action)
	})

	t.Run("wrong current password keeps the old one", func(t *testing.T) {
		rec := app.postForm(t, "/faculty/profile", url.Values{
			"name":             {"Dr. Rajesh Kumar"},
			"email":            {"principal@school.test"},
			"current_password": {"wrong"},
			"new_password":     {"newpass123"},
		}, session)
		require.Equal(t, http.StatusFound, rec.Code)

		refreshed, err := app.usrRepo.GetUser(ctx, user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.NoError(t, refreshed.CheckPassword("principal123"))
	})

	t.Run("password change", func(t *testing.T) {
		rec := app.postForm(t, "/faculty/profile", url.Values{
			"name":             {"Dr. Rajesh Kumar"},
			"email":            {"principal@school.test"},
			"current_password": {"principal123"},
			"new_password":     {"newpass123"},
		}, session)
		require.Equal(t, http.StatusFound, rec.Code)

		refreshed, err := app.usrRepo.GetUser(ctx, user.GetFilter{ID: usr.ID})
		require.NoError(t, err)
		assert.NoError(t, refreshed.CheckPassword("newpass123"))
	})
}
