package echoweb

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

// validationErrorText flattens a validation failure to the first user-facing
// message, suitable for a flash notice.
func validationErrorText(err error) string {
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fErr := range vErr {
			return fErr.Field() + ": " + fErr.Translate(core.Translator)
		}
	case *core.ValidationError:
		for _, fErr := range vErr.Fields {
			return fErr.Error
		}
		if vErr.Err != nil {
			return vErr.Error()
		}
	}
	return "Please correct the form and try again."
}

// newAppHTTPErrorHandler returns an echo.HTTPErrorHandler that renders the
// site's HTML error pages. signalShutdown is called whenever a core.shutdown
// error is caught so the server can stop gracefully.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code := http.StatusInternalServerError

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					code = herr.Code
				}
			}
		default: // any other error is a server error
			msg := http.StatusText(code)

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Username = claims.Username
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Response().Committed {
			return
		}

		page := "500"
		if code == http.StatusNotFound {
			page = "404"
		}
		if rErr := render(ctx, code, page, echo.Map{"Code": code}); rErr != nil {
			// last resort: plain text
			_ = ctx.String(code, http.StatusText(code))
		}
	}
}
