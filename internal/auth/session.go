package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session token lifetimes. A normal login gets a token that outlives
// any reasonable browsing session but not much more; "remember me"
// stretches it to 30 days and pairs it with a persistent cookie.
const (
	SessionTTL  = 12 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
)

const issuer = "gotodo"

// SessionService issues and validates the opaque session tokens that
// identify a logged-in user between requests.
//
// Tokens are HS256-signed JWTs whose Subject claim carries the user's
// numeric ID. The signature makes the token tamper-proof without any
// server-side session storage; invalidation is done by clearing the
// cookie that carries it.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given signing
// secret. The secret should be at least 32 bytes of random data in any
// real deployment (e.g. openssl rand -hex 32).
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed session token for the given user. remember
// selects the 30-day lifetime; otherwise the token expires after
// SessionTTL.
func (s *SessionService) Issue(userID int64, remember bool) (string, error) {
	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// IssueWithTTL creates a token with an explicit lifetime. Used by tests
// to produce already-expired tokens.
func (s *SessionService) IssueWithTTL(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the user ID
// it was issued for.
//
// The parse options pin the algorithm (rejecting alg-confusion tokens),
// the issuer, and require an expiry. Any failure — bad signature,
// expired, wrong issuer, garbage input — comes back as an error; the
// middleware treats every such token as "anonymous".
func (s *SessionService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: session expired")
		}
		return 0, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("auth: session token has no valid subject")
	}

	return userID, nil
}
