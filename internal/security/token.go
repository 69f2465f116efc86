package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lavosystem/lavo-go/internal/errors"
)

// Token purposes. Login tokens authenticate API requests; reset tokens are
// single-purpose credentials for the password reset flow and are never
// accepted as login tokens.
const (
	PurposeLogin = "login"
	PurposeReset = "reset"
)

// Claims carries the identity encoded in a bearer token
type Claims struct {
	UserID  uint   `json:"userId"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed bearer tokens
type TokenService struct {
	secret      []byte
	tokenExpiry time.Duration
	resetExpiry time.Duration
	now         func() time.Time // injectable for expiry tests
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string, tokenExpiry, resetExpiry time.Duration) *TokenService {
	return &TokenService{
		secret:      []byte(secret),
		tokenExpiry: tokenExpiry,
		resetExpiry: resetExpiry,
		now:         time.Now,
	}
}

// GenerateToken issues a login token for the given user.
func (ts *TokenService) GenerateToken(userID uint, role string) (string, error) {
	return ts.sign(userID, role, PurposeLogin, ts.tokenExpiry)
}

// GenerateResetToken issues a short-lived password reset token.
func (ts *TokenService) GenerateResetToken(userID uint) (string, error) {
	return ts.sign(userID, "", PurposeReset, ts.resetExpiry)
}

func (ts *TokenService) sign(userID uint, role, purpose string, expiry time.Duration) (string, error) {
	now := ts.now()
	claims := Claims{
		UserID:  userID,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", errors.New(err).
			Component("security").
			Category(errors.CategoryAuth).
			Context("operation", "sign_token").
			Build()
	}
	return signed, nil
}

// VerifyToken parses and validates a token of the expected purpose.
func (ts *TokenService) VerifyToken(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return ts.now() }))
	if err != nil {
		return nil, errors.New(err).
			Component("security").
			Category(errors.CategoryAuth).
			Context("operation", "verify_token").
			Build()
	}

	if !token.Valid || claims.Purpose != purpose {
		return nil, errors.Newf("token is not valid for purpose %q", purpose).
			Component("security").
			Category(errors.CategoryAuth).
			Build()
	}

	return claims, nil
}
