// Package flash stores one-shot notifications in a signed cookie. Messages
// added while handling one request are shown, then cleared, by the next page
// that pops them.
package flash

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Level classifies a message for styling.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// DefaultCookieName is the cookie used when no name is configured.
const DefaultCookieName = "contacts_flash"

// DefaultTTL bounds how long an unread message survives.
const DefaultTTL = 5 * time.Minute

const maxMessages = 8

// Message is a single notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"message"`
}

type claims struct {
	Messages []Message `json:"msgs"`
	jwt.RegisteredClaims
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long a pending message stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCookieName overrides the cookie name.
func WithCookieName(name string) Option {
	return func(s *Store) {
		if name = strings.TrimSpace(name); name != "" {
			s.cookieName = name
		}
	}
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) Option {
	return func(s *Store) {
		s.secure = secure
	}
}

// WithClock replaces the time source, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store reads and writes flash cookies signed with HS256.
type Store struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// New builds a Store. The secret must not be empty.
func New(secret []byte, opts ...Option) (*Store, error) {
	if len(secret) == 0 {
		return nil, errors.New("flash: secret is required")
	}
	s := &Store{
		secret:     append([]byte(nil), secret...),
		ttl:        DefaultTTL,
		cookieName: DefaultCookieName,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// CookieName returns the configured cookie name.
func (s *Store) CookieName() string { return s.cookieName }

// Success queues a success message.
func (s *Store) Success(w http.ResponseWriter, r *http.Request, text string) error {
	return s.Add(w, r, LevelSuccess, text)
}

// Warning queues a warning message.
func (s *Store) Warning(w http.ResponseWriter, r *http.Request, text string) error {
	return s.Add(w, r, LevelWarning, text)
}

// Add appends a message to any still pending in the request cookie and writes
// the updated cookie. It must be called before the response header is sent.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, level Level, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	messages := append(s.read(r), Message{Level: level, Text: text})
	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("flash: sign: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns pending messages and clears the cookie. Tampered or expired
// cookies yield no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	if _, err := r.Cookie(s.cookieName); err != nil {
		return nil
	}
	messages := s.read(r)
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return messages
}

func (s *Store) read(r *http.Request) []Message {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	parsed := &claims{}
	_, err = jwt.ParseWithClaims(cookie.Value, parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil
	}
	return parsed.Messages
}
