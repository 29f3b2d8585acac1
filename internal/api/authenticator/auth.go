package authenticator

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/services/user"
)

var (
	// ErrInvalidToken is returned when the token signature, shape or
	// type claim is wrong.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// UserClaims is the payload carried by both access and refresh tokens.
// Subject is the username.
type UserClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *UserClaims) Username() string {
	return c.Subject
}

// Authenticator signs and verifies bearer tokens. It is purely
// cryptographic; revocation state lives in the token store.
type Authenticator struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(conf *config.Config) *Authenticator {
	return &Authenticator{
		secret:     []byte(conf.JWT_SECRET),
		issuer:     conf.JWT_ISSUER,
		accessTTL:  conf.ACCESS_TOKEN_TTL,
		refreshTTL: conf.REFRESH_TOKEN_TTL,
	}
}

// GenerateAccessToken mints a short-lived access token for the user.
func (a *Authenticator) GenerateAccessToken(u *user.User) (string, error) {
	return a.generateToken(u, TokenTypeAccess, a.accessTTL)
}

// GenerateRefreshToken mints a refresh token with a longer expiry window.
func (a *Authenticator) GenerateRefreshToken(u *user.User) (string, error) {
	return a.generateToken(u, TokenTypeRefresh, a.refreshTTL)
}

func (a *Authenticator) generateToken(u *user.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:    u.ID.String(),
		Email:     u.Email,
		Role:      string(u.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken verifies the signature and expiry and returns the claims.
func (a *Authenticator) ValidateToken(raw string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &UserClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateRefreshToken verifies the token and rejects anything whose
// type claim is not "refresh", so access tokens cannot be replayed on
// the refresh path.
func (a *Authenticator) ValidateRefreshToken(raw string) (*UserClaims, error) {
	claims, err := a.ValidateToken(raw)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractUsername verifies the token and returns its subject.
func (a *Authenticator) ExtractUsername(raw string) (string, error) {
	claims, err := a.ValidateToken(raw)
	if err != nil {
		return "", err
	}
	return claims.Username(), nil
}

// IsTokenValid reports whether the token belongs to the user, has a
// valid signature and has not expired.
func (a *Authenticator) IsTokenValid(raw string, u *user.User) bool {
	claims, err := a.ValidateToken(raw)
	if err != nil {
		return false
	}
	return claims.Username() == u.Username
}
