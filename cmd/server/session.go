package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookieName = "quoteworks_cart"

type sessionContextKey struct{}

// sessionService issues and verifies signed cart session cookies. The cookie
// carries only a random session id; the cart itself lives in the database.
type sessionService struct {
	secret []byte
}

func newSessionService(secret string) (*sessionService, error) {
	if secret != "" {
		return &sessionService{secret: []byte(secret)}, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return &sessionService{secret: key}, nil
}

func (s *sessionService) sign(sessionID string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(sessionID))
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return payload + "." + hex.EncodeToString(mac.Sum(nil))
}

func (s *sessionService) verify(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(string(decoded))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *sessionService) setCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.sign(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// middleware attaches the caller's cart session id to the request context,
// starting a new session when the cookie is missing or fails verification.
func (s *sessionService) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessionID, _ = s.verify(cookie.Value)
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			s.setCookie(w, r, sessionID)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey{}, sessionID)))
	})
}

func sessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}
