package echoweb

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

const (
	sessionCookieName = "shule_session"
	contextTokenKey   = "sessionToken"
	contextAccountKey = "account"

	loginPath = "/faculty/login"
)

// Claims is the session payload carried in the signed cookie.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// sessionAuth issues and verifies the signed session cookie. The cookie is
// HttpOnly; nothing about the session is readable from page scripts.
type sessionAuth struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newSessionAuth(conf *core.Config) *sessionAuth {
	return &sessionAuth{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
			TokenLookup:   "cookie:" + sessionCookieName,
			// an anonymous or expired visitor is sent to the login page with
			// the page they wanted preserved in ?next=
			ErrorHandlerWithContext: func(err error, ctx echo.Context) error {
				return redirectToLogin(ctx)
			},
		},
	}
}

// Middleware returns the session gate for the faculty-only routes.
func (a *sessionAuth) Middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

// GetUserClaims builds the session claims for an authenticated account.
func (a *sessionAuth) GetUserClaims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(a.conf.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: usr.Username,
		Email:    usr.Email,
		Role:     string(usr.Role),
		IsAdmin:  usr.IsAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (a *sessionAuth) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey.([]byte))
	return ss, errors.Wrap(err, "signing token")
}

// Login sets the session cookie for usr on the response.
func (a *sessionAuth) Login(ctx echo.Context, usr user.User) error {
	token, err := a.GenerateToken(a.GetUserClaims(usr))
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.conf.SessionExpirationDelta),
		HttpOnly: true,
		Secure:   !a.conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout expires the session cookie.
func (a *sessionAuth) Logout(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !a.conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

// OptionalClaims parses the session cookie if one is present and valid;
// it never fails the request.
func (a *sessionAuth) OptionalClaims(ctx echo.Context) (*Claims, bool) {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return a.jwtConfig.SigningKey, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
}

func contextAccount(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextAccountKey).(user.User)
	return usr, ok
}

// redirectToLogin sends the visitor to the login page, remembering where they
// were headed so login can bounce them back.
func redirectToLogin(ctx echo.Context) error {
	addFlash(ctx, "warning", "Please log in to access this page.")
	next := ctx.Request().URL.RequestURI()
	target := loginPath
	if next != "" && next != "/" {
		target += "?next=" + url.QueryEscape(next)
	}
	return ctx.Redirect(http.StatusFound, target)
}

// safeNext only accepts a same-site relative path as a post-login target.
func safeNext(next string) bool {
	return len(next) > 1 && next[0] == '/' && next[1] != '/' && next[1] != '\\'
}
