package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session mirrors the persisted token in memory for the UI layer. The HTTP
// client notifies it through SetToken after every successful refresh.
//
// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
}

func New() *Session {
	return &Session{}
}

// SetToken replaces the current token. Its signature matches the
// token-refreshed handler expected by the API client.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Clear() {
	s.SetToken("")
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Info is what the client can tell about the current token without
// verifying it; the signature is the backend's business.
type Info struct {
	UserID    string
	ExpiresAt time.Time
}

// Info decodes the token claims. ok is false when there is no token or it is
// not a parsable JWT.
func (s *Session) Info() (Info, bool) {
	token := s.Token()
	if token == "" {
		return Info{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, false
	}

	var info Info
	switch uid := claims["user_id"].(type) {
	case string:
		info.UserID = uid
	case float64:
		info.UserID = strconv.FormatFloat(uid, 'f', -1, 64)
	}
	if info.UserID == "" {
		info.UserID, _ = claims.GetSubject()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}
