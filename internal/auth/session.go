package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventura-app/server/internal/domain/users"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// SessionManager signs and validates the JWT carried in the login cookie.
type SessionManager struct {
	secret     []byte
	expiry     time.Duration
	cookieName string
	secure     bool
}

func NewSessionManager(secret string, expiry time.Duration, cookieName string, secure bool) *SessionManager {
	return &SessionManager{
		secret:     []byte(secret),
		expiry:     expiry,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (m *SessionManager) Issue(actor users.Actor) (string, error) {
	if actor.ID == 0 || actor.Username == "" {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := &Claims{
		Username: actor.Username,
		Admin:    actor.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(actor.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *SessionManager) Validate(tokenString string) (users.Actor, error) {
	if strings.TrimSpace(tokenString) == "" {
		return users.Actor{}, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return users.Actor{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return users.Actor{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return users.Actor{}, ErrInvalidToken
	}

	return users.Actor{ID: id, Username: claims.Username, Admin: claims.Admin}, nil
}

// SetCookie writes the session cookie for a freshly issued token.
func (m *SessionManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.expiry.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ActorFromRequest resolves the session cookie on a request, if any.
func (m *SessionManager) ActorFromRequest(r *http.Request) (users.Actor, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return users.Actor{}, ErrMissingToken
	}
	return m.Validate(cookie.Value)
}
