// Package session issues and verifies browser session identities. A session
// is a random identifier carried in a signed cookie; it keys server-side
// bookkeeping such as terms-of-service acceptance and never identifies a
// user account.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Config is the configuration for session cookies.
type Config struct {
	// Secret signs session tokens. When empty a random secret is
	// generated at startup, which invalidates existing sessions on
	// restart.
	Secret string `hcl:"secret,optional"`

	// CookieName is the name of the session cookie.
	CookieName string `hcl:"cookie_name,optional"`

	// TTLHours is how long an issued session stays valid.
	TTLHours int `hcl:"ttl_hours,optional"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.TTLHours < 0 {
		return fmt.Errorf("session ttl_hours cannot be negative")
	}
	return nil
}

// SetDefaults sets default values for the configuration.
func (c *Config) SetDefaults() {
	if c.CookieName == "" {
		c.CookieName = "ellie_session"
	}
	if c.TTLHours == 0 {
		c.TTLHours = 24 * 30
	}
}

// Manager issues, verifies, and refreshes session cookies.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	logger     hclog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewManager creates a session manager from configuration. secureCookies
// marks issued cookies Secure and should be set whenever the service is
// reachable over HTTPS.
func NewManager(cfg Config, secureCookies bool, logger hclog.Logger) (*Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()

	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		generated := make([]byte, 32)
		if _, err := rand.Read(generated); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		secret = []byte(hex.EncodeToString(generated))
		logger.Warn("no session secret configured, sessions will not survive restarts")
	}

	return &Manager{
		secret:     secret,
		cookieName: cfg.CookieName,
		ttl:        time.Duration(cfg.TTLHours) * time.Hour,
		secure:     secureCookies,
		logger:     logger.Named("session"),
		now:        time.Now,
	}, nil
}

// Issue creates a new session identifier and its signed token.
func (m *Manager) Issue() (string, string, error) {
	sessionID := uuid.NewString()
	now := m.now()

	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("signing session token: %w", err)
	}

	return sessionID, token, nil
}

// Verify checks a session token's signature and expiry and returns the
// session identifier it carries.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method %q", t.Method.Alg())
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("verifying session token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("session token carries no session id")
	}

	return claims.Subject, nil
}

// EnsureSession returns the request's session identifier, issuing a fresh
// session cookie when the request has none or carries one that no longer
// verifies.
func (m *Manager) EnsureSession(
	w http.ResponseWriter, r *http.Request,
) (string, error) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		sessionID, err := m.Verify(cookie.Value)
		if err == nil {
			return sessionID, nil
		}
		m.logger.Debug("replacing invalid session cookie", "error", err)
	}

	sessionID, token, err := m.Issue()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID, nil
}
