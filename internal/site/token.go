package site

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

const (
	viewCookieName  = "grind_view"
	viewHeaderName  = "X-Grind-View"
	viewTokenMaxAge = 24 * 60 * 60
)

// tokens signs and encrypts view ids handed to the browser.
type tokens struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func newTokens(hashKey, blockKey []byte, secure bool) *tokens {
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(viewTokenMaxAge)
	return &tokens{codec: codec, secure: secure}
}

func (t *tokens) encode(viewID string) (string, error) {
	return t.codec.Encode(viewCookieName, viewID)
}

// viewID reads the view id from the request header, falling back to the cookie.
func (t *tokens) viewID(r *http.Request) (string, bool) {
	raw := r.Header.Get(viewHeaderName)
	if raw == "" {
		if c, err := r.Cookie(viewCookieName); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return "", false
	}
	var id string
	if err := t.codec.Decode(viewCookieName, raw, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (t *tokens) setCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     viewCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (t *tokens) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     viewCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
