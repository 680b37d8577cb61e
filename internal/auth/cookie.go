package auth

import (
	"errors"
	"net/http"
)

// CookieName is the session cookie carrying the token.
const CookieName = "token"

type CookieOptions struct {
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
	Path     string
	// nil when clearing the cookie
	MaxAgeMillis *int64
}

// MaxAgeSeconds converts the option to the unit Set-Cookie uses. Clearing yields -1.
func (o CookieOptions) MaxAgeSeconds() int {
	if o.MaxAgeMillis == nil {
		return -1
	}
	return int(*o.MaxAgeMillis / 1000)
}

var errInvalidCookieExpiry = errors.New("cookie expiry must be positive")

// CookieOptions returns the session cookie attributes. Set and clear share
// every attribute except the max age, which is only present when an expiry is given.
func (s *Service) CookieOptions(expiresInMinutes *int) (CookieOptions, error) {
	opts := CookieOptions{
		HTTPOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}

	if expiresInMinutes != nil {
		if *expiresInMinutes <= 0 {
			return CookieOptions{}, errInvalidCookieExpiry
		}
		ms := int64(*expiresInMinutes) * 60 * 1000
		opts.MaxAgeMillis = &ms
	}

	return opts, nil
}
