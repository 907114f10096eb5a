package echoweb

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/storage/files"
)

// fallbackImageURL is served in place of a missing uploaded asset; broken
// links degrade to a placeholder, not a failure page.
const fallbackImageURL = "https://images.unsplash.com/photo-1523050854058-8df90110c9f1?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"

type fileHandler struct {
	files    *files.Store
	paperSvc *paper.Service
}

// serveUpload streams a raw uploaded asset by its path relative to the upload
// root. The traversal check runs before any filesystem call.
func (h *fileHandler) serveUpload(ctx echo.Context) error {
	rel := ctx.Param("*")

	full, err := h.files.Resolve(rel)
	if err != nil {
		return ctx.String(http.StatusBadRequest, "Invalid file path")
	}
	if !h.files.Exists(rel) {
		if h.files.IsDir(rel) {
			return ctx.String(http.StatusBadRequest, "Not a file")
		}
		return ctx.Redirect(http.StatusFound, fallbackImageURL)
	}
	return ctx.File(full)
}

// downloadPaper streams a cataloged paper as an attachment named
// {subject}_{year}.pdf, regardless of the stored filename.
func (h *fileHandler) downloadPaper(ctx echo.Context) error {
	p, err := h.paperSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if err == paper.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "paper not found")
		}
		return err
	}

	full, err := h.files.Resolve(p.FilePath)
	if err != nil || !h.files.Exists(p.FilePath) {
		addFlash(ctx, "error", "Requested file not found.")
		return ctx.Redirect(http.StatusFound, "/pyqp")
	}

	return ctx.Attachment(full, fmt.Sprintf("%s_%d.pdf", p.Subject, p.Year))
}
