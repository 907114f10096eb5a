package echoweb

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/paper"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/files"
)

// list sizes shown on the faculty pages
const (
	dashboardRecentUploads = 5
	dashboardRecentAudit   = 10
	uploadPageRecent       = 10
	profileRecentAudit     = 20
)

type facultyHandler struct {
	auth     *sessionAuth
	userSvc  *user.Service
	paperSvc *paper.Service
	auditSvc *audit.Service
	files    *files.Store
}

func registerFacultyHandlers(app *echo.Echo, auth *sessionAuth, deps ServerDeps, session ...echo.MiddlewareFunc) {
	h := &facultyHandler{
		auth:     auth,
		userSvc:  deps.UserSvc,
		paperSvc: deps.PaperSvc,
		auditSvc: deps.AuditSvc,
		files:    deps.Files,
	}
	app.GET("/faculty/login", h.loginPage)
	app.POST("/faculty/login", h.login)

	g := app.Group("/faculty", session...)
	g.GET("/logout", h.logout)
	g.GET("/dashboard", h.dashboard)
	g.GET("/upload_pyqp", h.uploadPage)
	g.POST("/upload_pyqp", h.uploadPYQP)
	g.GET("/profile", h.profilePage)
	g.POST("/profile", h.updateProfile)
}

func (h *facultyHandler) loginPage(ctx echo.Context) error {
	if claims, ok := h.auth.OptionalClaims(ctx); ok {
		return ctx.Redirect(http.StatusFound, user.Role(claims.Role).LandingRoute())
	}
	return render(ctx, http.StatusOK, "login", echo.Map{"Next": ctx.QueryParam("next")})
}

func (h *facultyHandler) login(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	uname := ctx.FormValue("username")
	pwd := ctx.FormValue("password")

	usr, err := h.userSvc.Authenticate(reqCtx, uname, pwd)
	if err != nil {
		if err == user.ErrAuthenticationFailed {
			addFlash(ctx, "error", "Invalid username or password. Please try again.")
			target := loginPath
			if next := ctx.QueryParam("next"); safeNext(next) {
				target += "?next=" + next
			}
			return ctx.Redirect(http.StatusFound, target)
		}
		return err
	}

	if err = h.auth.Login(ctx, usr); err != nil {
		return err
	}
	_ = h.auditSvc.Record(reqCtx, usr.ID, audit.ActionLogin,
		fmt.Sprintf("Faculty %s logged in", usr.Name), ctx.RealIP(), ctx.Request().UserAgent())

	addFlash(ctx, "success", fmt.Sprintf("Welcome back, %s!", usr.Name))
	if next := ctx.QueryParam("next"); safeNext(next) {
		return ctx.Redirect(http.StatusFound, next)
	}
	return ctx.Redirect(http.StatusFound, usr.Role.LandingRoute())
}

// logout records the audit entry first: the actor identity must still be
// resolvable when the entry is written.
func (h *facultyHandler) logout(ctx echo.Context) error {
	if usr, ok := contextAccount(ctx); ok {
		_ = h.auditSvc.Record(ctx.Request().Context(), usr.ID, audit.ActionLogout,
			fmt.Sprintf("Faculty %s logged out", usr.Name), ctx.RealIP(), ctx.Request().UserAgent())
	}
	h.auth.Logout(ctx)
	addFlash(ctx, "info", "You have been logged out successfully.")
	return ctx.Redirect(http.StatusFound, "/")
}

func (h *facultyHandler) dashboard(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, _ := contextAccount(ctx)

	count, err := h.paperSvc.CountByOwner(reqCtx, usr.ID)
	if err != nil {
		return err
	}
	recent, err := h.paperSvc.ListByOwner(reqCtx, usr.ID, dashboardRecentUploads)
	if err != nil {
		return err
	}
	activities, err := h.auditSvc.RecentByActor(reqCtx, usr.ID, dashboardRecentAudit)
	if err != nil {
		return err
	}

	return render(ctx, http.StatusOK, "dashboard", echo.Map{
		"PaperCount": count,
		"Recent":     recent,
		"Activities": activities,
	})
}

func (h *facultyHandler) uploadPage(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, _ := contextAccount(ctx)

	total, err := h.paperSvc.CountAll(reqCtx)
	if err != nil {
		return err
	}
	recent, err := h.paperSvc.ListByOwner(reqCtx, usr.ID, uploadPageRecent)
	if err != nil {
		return err
	}

	return render(ctx, http.StatusOK, "upload_pyqp", echo.Map{
		"TotalPapers": total,
		"Recent":      recent,
		"Subjects":    paper.KnownSubjects,
		"CurrentYear": time.Now().Year(),
	})
}

func (h *facultyHandler) uploadPYQP(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, _ := contextAccount(ctx)

	file, err := ctx.FormFile("pdf")
	if err != nil || file.Filename == "" {
		addFlash(ctx, "error", "No file selected")
		return ctx.Redirect(http.StatusFound, "/faculty/upload_pyqp")
	}

	if err = paper.ValidateFilename(file.Filename); err != nil {
		addFlash(ctx, "error", "Invalid file type. Please upload PDF files only.")
		return ctx.Redirect(http.StatusFound, "/faculty/upload_pyqp")
	}

	subject := paper.KnownSubject(ctx.FormValue("subject"))
	if custom := ctx.FormValue("custom_subject"); subject.Value() == "Other" && custom != "" {
		subject = paper.CustomSubject(custom)
	}
	year, _ := strconv.Atoi(ctx.FormValue("year"))

	safeName := paper.SanitizeFilename(file.Filename)
	relPath := path.Join(files.PYQPDir, paper.UniqueName(safeName, time.Now().UTC()))

	np := paper.NewPaper{
		Subject:     subject,
		Year:        year,
		Filename:    safeName,
		FilePath:    relPath,
		Description: ctx.FormValue("description"),
		UploadedBy:  usr.ID,
	}
	if err = np.Validate(); err != nil {
		addFlash(ctx, "error", validationErrorText(err))
		return ctx.Redirect(http.StatusFound, "/faculty/upload_pyqp")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	// the file write and the metadata insert are not transactional with each
	// other: a failed insert can leave an orphaned file behind
	np.FileSize, err = h.files.Save(relPath, src)
	if err != nil {
		return err
	}
	if _, err = h.paperSvc.Record(reqCtx, np); err != nil {
		return err
	}

	_ = h.auditSvc.Record(reqCtx, usr.ID, audit.ActionUploadPYQP,
		fmt.Sprintf("Uploaded PYQP: %s %d", subject.Value(), year), ctx.RealIP(), ctx.Request().UserAgent())

	addFlash(ctx, "success", "PYQP uploaded successfully!")
	return ctx.Redirect(http.StatusFound, "/faculty/upload_pyqp")
}

func (h *facultyHandler) profilePage(ctx echo.Context) error {
	usr, _ := contextAccount(ctx)
	activities, err := h.auditSvc.RecentByActor(ctx.Request().Context(), usr.ID, profileRecentAudit)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "profile", echo.Map{"Activities": activities})
}

func (h *facultyHandler) updateProfile(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	usr, _ := contextAccount(ctx)

	var up user.UpdateProfile
	if err := ctx.Bind(&up); err != nil {
		return err
	}
	if err := up.Validate(usr, h.userSvc); err != nil {
		addFlash(ctx, "error", validationErrorText(err))
		return ctx.Redirect(http.StatusFound, "/faculty/profile")
	}

	if _, err := h.userSvc.UpdateProfile(reqCtx, usr, up); err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			addFlash(ctx, "error", validationErrorText(err))
			return ctx.Redirect(http.StatusFound, "/faculty/profile")
		}
		return err
	}

	_ = h.auditSvc.Record(reqCtx, usr.ID, audit.ActionUpdateProfile,
		"Updated faculty profile information", ctx.RealIP(), ctx.Request().UserAgent())

	if up.NewPassword != "" {
		addFlash(ctx, "success", "Password updated successfully!")
	}
	addFlash(ctx, "success", "Profile updated successfully!")
	return ctx.Redirect(http.StatusFound, "/faculty/profile")
}
