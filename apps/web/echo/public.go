package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/contact"
	"github.com/trezcool/shule/core/member"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
)

type publicHandler struct {
	auth       *sessionAuth
	paperSvc   *paper.Service
	memberSvc  *member.Service
	contactSvc *contact.Service
}

func registerPublicHandlers(app *echo.Echo, auth *sessionAuth, deps ServerDeps) {
	h := &publicHandler{
		auth:       auth,
		paperSvc:   deps.PaperSvc,
		memberSvc:  deps.MemberSvc,
		contactSvc: deps.ContactSvc,
	}
	app.GET("/", h.home)
	app.GET("/about", h.about)
	app.GET("/faculty", h.facultyListing)
	app.GET("/pyqp", h.pyqp)
	app.GET("/contact", h.contactPage)
	app.POST("/contact", h.submitContact)

	f := &fileHandler{files: deps.Files, paperSvc: deps.PaperSvc}
	app.GET("/uploads/*", f.serveUpload)
	app.GET("/download_pyqp/:id", f.downloadPaper)
}

// home redirects a signed-in account to its landing page; everyone else gets
// the public landing page.
func (h *publicHandler) home(ctx echo.Context) error {
	if claims, ok := h.auth.OptionalClaims(ctx); ok {
		return ctx.Redirect(http.StatusFound, user.Role(claims.Role).LandingRoute())
	}
	return render(ctx, http.StatusOK, "index", nil)
}

func (h *publicHandler) about(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "about", nil)
}

func (h *publicHandler) facultyListing(ctx echo.Context) error {
	members, err := h.memberSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "faculty", echo.Map{"Members": members})
}

// pyqp renders the public catalog, newest year first, grouped per subject.
func (h *publicHandler) pyqp(ctx echo.Context) error {
	papers, err := h.paperSvc.ListActive(ctx.Request().Context())
	if err != nil {
		return err
	}
	subjects, grouped := paper.GroupBySubject(papers)
	return render(ctx, http.StatusOK, "pyqp", echo.Map{
		"Subjects": subjects,
		"Grouped":  grouped,
	})
}

func (h *publicHandler) contactPage(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "contact", nil)
}

func (h *publicHandler) submitContact(ctx echo.Context) error {
	var nm contact.NewMessage
	if err := ctx.Bind(&nm); err != nil {
		return err
	}
	if err := nm.Validate(); err != nil {
		addFlash(ctx, "error", validationErrorText(err))
		return ctx.Redirect(http.StatusFound, "/contact")
	}

	if _, err := h.contactSvc.Submit(ctx.Request().Context(), nm); err != nil {
		return err
	}
	addFlash(ctx, "success", "Your message has been sent successfully!")
	return ctx.Redirect(http.StatusFound, "/contact")
}
