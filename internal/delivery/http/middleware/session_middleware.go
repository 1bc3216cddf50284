package middleware

import (
	"context"
	"net/http"
	"time"

	"checkout-backend/internal/domain"
	"checkout-backend/pkg/logger"
	"checkout-backend/pkg/utils"
)

// SessionCookieName holds the signed checkout session token.
const SessionCookieName = "checkout_session"

// NewSessionMiddleware identifies the browser session behind each request.
// A valid cookie yields its session ID; anything else mints a fresh session
// and sets the cookie. The ID lands in the request context under
// domain.SessionContextKey.
func NewSessionMiddleware(secret string, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if id, parseErr := utils.ParseSessionToken(secret, cookie.Value); parseErr == nil {
					sessionID = id
				}
			}

			if sessionID == "" {
				sessionID = utils.GenerateUUID()
				token, err := utils.NewSessionToken(secret, sessionID, ttl)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to sign session token")
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), domain.SessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID extracts the checkout session ID from the request context.
func SessionID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(domain.SessionContextKey).(string)
	return id, ok && id != ""
}
