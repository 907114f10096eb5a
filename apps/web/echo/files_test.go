package echoweb

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/storage/files"
)

func TestServeUpload(t *testing.T) {
	app := newTestApp(t)

	rel := files.PYQPDir + "/sample.pdf"
	_, err := app.files.Save(rel, strings.NewReader("%PDF-1.4 sample"))
	require.NoError(t, err)

	t.Run("existing file is streamed", func(t *testing.T) {
		rec := app.get("/uploads/" + rel)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "%PDF-1.4 sample")
	})

	t.Run("traversal is rejected before the filesystem is touched", func(t *testing.T) {
		for _, path := range []string{
			"/uploads/../secret.txt",
			"/uploads/pyqp/../../secret.txt",
		} {
			rec := app.get(path)
			assert.Equal(t, http.StatusBadRequest, rec.Code, path)
			assert.Equal(t, "Invalid file path", rec.Body.String())
		}
	})

	t.Run("missing file degrades to the placeholder", func(t *testing.T) {
		rec := app.get("/uploads/pyqp/not-there.png")
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, fallbackImageURL, rec.Header().Get("Location"))
	})

	t.Run("directory is not a file", func(t *testing.T) {
		rec := app.get("/uploads/" + files.PYQPDir)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Not a file", rec.Body.String())
	})
}

func TestDownloadPaper(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	newCataloged := func(t *testing.T, subject string, year int, withFile bool) paper.Paper {
		t.Helper()
		rel := files.PYQPDir + "/" + paper.UniqueName("paper.pdf", time.Now().UTC())
		if withFile {
			_, err := app.files.Save(rel, strings.NewReader("%PDF-1.4 cataloged"))
			require.NoError(t, err)
		}
		p, err := app.paperRepo.CreatePaper(ctx, paper.Paper{
			Subject:    subject,
			Year:       year,
			Filename:   "paper.pdf",
			FilePath:   rel,
			UploadedBy: "faculty-1",
			UploadedAt: time.Now().UTC(),
			IsActive:   true,
		})
		require.NoError(t, err)
		return p
	}

	t.Run("streams an attachment with the synthesized name", func(t *testing.T) {
		p := newCataloged(t, "Mathematics", 2023, true)

		rec := app.get("/download_pyqp/" + p.ID)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment`)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "Mathematics_2023.pdf")
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		rec := app.get("/download_pyqp/00000000-0000-0000-0000-000000000000")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("file deleted out-of-band bounces to the catalog", func(t *testing.T) {
		p := newCataloged(t, "Physics", 2022, false)

		rec := app.get("/download_pyqp/" + p.ID)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/pyqp", rec.Header().Get("Location"))
	})
}
