package children

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "family-chores"

// Sessions signs and verifies HS256 child session tokens. The token id is a
// fingerprint of the capability token so that regenerating it revokes every
// outstanding session.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

type SessionClaims struct {
	ChildID     string
	Fingerprint string
}

func NewSessions(secret []byte, ttl time.Duration) *Sessions {
	return &Sessions{secret: secret, ttl: ttl}
}

func (s *Sessions) Issue(child Child, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   child.ID,
		ID:        TokenFingerprint(child.Token),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign child session: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *Sessions) Parse(token string) (SessionClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return SessionClaims{}, errors.Join(ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	return SessionClaims{ChildID: claims.Subject, Fingerprint: claims.ID}, nil
}

func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(normalizeToken(token)))
	return hex.EncodeToString(sum[:8])
}
