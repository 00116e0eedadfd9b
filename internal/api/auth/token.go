package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec signs the client-facing session token. The token carries the
// session ID as jti and the user ID as sub; the session row stays the
// source of truth.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string, now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{secret: []byte(secret), now: now}
}

func (c *TokenCodec) Encode(sessionID string, userID uint, expiresAt time.Time) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("session secret not configured")
	}
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(c.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode checks signature and expiry and returns the session and user IDs.
func (c *TokenCodec) Decode(token string) (string, uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", 0, err
	}
	if claims.ID == "" {
		return "", 0, errors.New("token has no session id")
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return "", 0, errors.New("token has no user id")
	}
	return claims.ID, uint(uid), nil
}
