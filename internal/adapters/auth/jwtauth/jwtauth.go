package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-boarding-backend/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token inválido o expirado")
)

// TokenSource firma y verifica tokens de sesión con HMAC. Implementa
// auth.Verifier para el middleware y el TokenIssuer del módulo de
// usuarios.
type TokenSource struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func New(secret string, expiry time.Duration) *TokenSource {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenSource{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

type sessionClaims struct {
	Username string `json:"username"`
	RoleID   string `json:"role_id"`
	jwt.RegisteredClaims
}

func (t *TokenSource) Issue(c auth.Claims) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: c.Username,
		RoleID:   c.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (t *TokenSource) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		// Solo HMAC: un token firmado con otro método se rechaza.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, ErrTokenInvalid
	}

	return auth.Claims{
		UserID:   userID,
		Username: claims.Username,
		RoleID:   claims.RoleID,
	}, nil
}
