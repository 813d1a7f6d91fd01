package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Password-reset tokens are self-contained: signature + expiry only,
// no server-side storage. A token that verifies can be replayed until it
// expires; the window is kept short for that reason.
var (
	ErrResetExpired = errors.New("reset token expired")
	ErrResetInvalid = errors.New("reset token invalid")
)

// ResetClaims 密码重置 JWT 负载
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateResetToken signs a reset token binding the given email for ttl.
func GenerateResetToken(secret, email string, ttl time.Duration) (string, error) {
	return generateResetTokenAt(secret, email, time.Now(), ttl)
}

func generateResetTokenAt(secret, email string, issuedAt time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	claims := &ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseResetToken verifies signature and expiry and returns the bound email.
// Expired tokens report ErrResetExpired; everything else is ErrResetInvalid.
func ParseResetToken(secret, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ResetClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrResetInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrResetExpired
		}
		return "", ErrResetInvalid
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrResetInvalid
	}
	return claims.Email, nil
}
