package echoweb

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	flashCookieName = "shule_flash"
	flashContextKey = "pendingFlashes"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"c"` // success | error | info | warning
	Message  string `json:"m"`
}

// addFlash queues a notice in the flash cookie; it survives exactly one
// redirect and is consumed by the next render. Notices queued earlier in the
// same request are kept.
func addFlash(ctx echo.Context, category, message string) {
	pending, ok := ctx.Get(flashContextKey).([]Flash)
	if !ok {
		pending = readFlashes(ctx)
	}
	flashes := append(pending, Flash{Category: category, Message: message})
	ctx.Set(flashContextKey, flashes)
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued notices and clears the cookie.
func popFlashes(ctx echo.Context) []Flash {
	flashes := readFlashes(ctx)
	if len(flashes) > 0 {
		ctx.SetCookie(&http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func readFlashes(ctx echo.Context) []Flash {
	cookie, err := ctx.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
