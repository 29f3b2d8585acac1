package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/api/authenticator"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services/token"
	"github.com/nderitu/tma/internal/services/user"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the auth core needs.
type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// TokenStore persists revocable session records.
type TokenStore interface {
	Save(ctx context.Context, t *token.Token) (*token.Token, error)
	Rotate(ctx context.Context, userID uuid.UUID, fresh *token.Token) (*token.Token, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	GenerateAccessToken(u *user.User) (string, error)
	GenerateRefreshToken(u *user.User) (string, error)
	ValidateRefreshToken(raw string) (*authenticator.UserClaims, error)
	IsTokenValid(raw string, u *user.User) bool
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	issuer TokenIssuer
}

func NewAuthService(users UserStore, tokens TokenStore, issuer TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, issuer: issuer}
}

// Register creates a user with a hashed password and issues the first
// token pair. Fails with a conflict when the email is already taken.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, perrors.NewErrConflict("User already exists", errors.New("email already registered"), map[string]interface{}{"email": req.Email})
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, perrors.NewErrInternalServerError("Failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to hash password", err)
	}

	role := req.Role
	if !role.Valid() {
		role = user.RoleUser
	}

	created, err := s.users.Create(ctx, &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to create user", err)
	}

	return s.issueTokens(ctx, created, false)
}

// Login verifies the credential and rotates the user's session tokens.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, perrors.NewErrUnauthorized("Invalid credentials", err)
		}
		return nil, perrors.NewErrInternalServerError("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, perrors.NewErrUnauthorized("Invalid credentials", errors.New("password mismatch"))
	}

	return s.issueTokens(ctx, u, true)
}

// Refresh mints a new access token from a valid refresh token. The
// refresh token itself is passed through unchanged; prior access tokens
// are revoked (single active session).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.issuer.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, perrors.NewErrUnauthorized("Invalid refresh token", err)
	}

	u, err := s.users.GetByUsername(ctx, claims.Username())
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, perrors.NewErrNotFound("User not found", err)
		}
		return nil, perrors.NewErrInternalServerError("Failed to look up user", err)
	}

	if !s.issuer.IsTokenValid(refreshToken, u) {
		return nil, perrors.NewErrUnauthorized("Invalid refresh token", errors.New("token validation failed"))
	}

	accessToken, err := s.issuer.GenerateAccessToken(u)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to generate token", err)
	}

	if _, err := s.tokens.Rotate(ctx, u.ID, s.record(u, accessToken)); err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to persist token", err)
	}

	return &AuthResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// issueTokens generates a fresh access+refresh pair and persists the
// access token. When rotate is set, all previously live tokens are
// revoked in the same transaction as the insert.
func (s *AuthService) issueTokens(ctx context.Context, u *user.User, rotate bool) (*AuthResult, error) {
	accessToken, err := s.issuer.GenerateAccessToken(u)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to generate token", err)
	}

	refreshToken, err := s.issuer.GenerateRefreshToken(u)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to generate refresh token", err)
	}

	if rotate {
		_, err = s.tokens.Rotate(ctx, u.ID, s.record(u, accessToken))
	} else {
		_, err = s.tokens.Save(ctx, s.record(u, accessToken))
	}
	if err != nil {
		return nil, perrors.NewErrInternalServerError("Failed to persist token", err)
	}

	return &AuthResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) record(u *user.User, raw string) *token.Token {
	return &token.Token{
		UserID:    u.ID,
		Token:     raw,
		TokenType: token.TypeBearer,
	}
}
