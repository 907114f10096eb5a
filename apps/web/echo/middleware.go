package echoweb

import (
	"github.com/trezcool/shule/core/user"

	"github.com/labstack/echo/v4"
)

// accountLoader resolves the session claims to a live account and stores it in
// the request context. A stale session (account deleted or deactivated since
// the cookie was issued) is cleared and sent back to the login page.
func accountLoader(svc *user.Service, auth *sessionAuth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				auth.Logout(ctx)
				return redirectToLogin(ctx)
			}

			usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
			if err != nil || !usr.IsActive {
				auth.Logout(ctx)
				return redirectToLogin(ctx)
			}

			ctx.Set(contextAccountKey, usr)
			return next(ctx)
		}
	}
}
