package dashboard

import (
	"context"
	"net/http"
	"time"

	"eventplanner/internal/domain"
)

const (
	sessionCookie = "eventplanner_session"
	sessionTTL    = 12 * time.Hour
)

type sessionKey struct{}

func (s *Server) startSession(w http.ResponseWriter, claims domain.SessionClaims) error {
	token, err := s.tokens.Issue(claims, sessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) endSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// readSession returns the claims of a valid session cookie, or nil.
func (s *Server) readSession(r *http.Request) *domain.SessionClaims {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	claims, err := s.tokens.Verify(c.Value)
	if err != nil {
		return nil
	}
	return claims
}

// requireSession redirects to the login page unless the request carries a valid session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := s.readSession(r)
		if claims == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, claims)))
	})
}

func sessionFrom(ctx context.Context) *domain.SessionClaims {
	claims, _ := ctx.Value(sessionKey{}).(*domain.SessionClaims)
	return claims
}
