package authenticator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT_SECRET:        "test-secret-key",
		JWT_ISSUER:        "test-issuer",
		ACCESS_TOKEN_TTL:  15 * time.Minute,
		REFRESH_TOKEN_TTL: 7 * 24 * time.Hour,
	}
}

func testUser() *user.User {
	return &user.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@tma.local",
		Role:     user.RoleUser,
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	a := New(testConfig())
	u := testUser()

	raw, err := a.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := a.ValidateToken(raw)
	require.NoError(t, err)

	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, u.Username, claims.Username())
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, string(u.Role), claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestGenerateRefreshToken(t *testing.T) {
	a := New(testConfig())
	u := testUser()

	raw, err := a.GenerateRefreshToken(u)
	require.NoError(t, err)

	claims, err := a.ValidateToken(raw)
	require.NoError(t, err)

	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, u.Username, claims.Username())
}

func TestExtractUsername(t *testing.T) {
	a := New(testConfig())
	u := testUser()

	raw, err := a.GenerateAccessToken(u)
	require.NoError(t, err)

	username, err := a.ExtractUsername(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = a.ExtractUsername("not.a.valid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsTokenValid(t *testing.T) {
	a := New(testConfig())
	u := testUser()

	raw, err := a.GenerateAccessToken(u)
	require.NoError(t, err)

	assert.True(t, a.IsTokenValid(raw, u))

	other := testUser()
	other.Username = "bob"
	assert.False(t, a.IsTokenValid(raw, other), "token must not validate for another user")
}

func TestValidateRefreshToken(t *testing.T) {
	a := New(testConfig())
	u := testUser()

	refresh, err := a.GenerateRefreshToken(u)
	require.NoError(t, err)

	claims, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, u.Username, claims.Username())
}

func TestValidateRefreshTokenRejectsAccessToken(t *testing.T) {
	a := New(testConfig())

	access, err := a.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = a.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.ValidateRefreshToken("not.a.valid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	a := New(testConfig())

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "random string", token: "not.a.valid.token"},
		{name: "malformed jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	a1 := New(testConfig())

	conf2 := testConfig()
	conf2.JWT_SECRET = "another-secret"
	a2 := New(conf2)

	raw, err := a1.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = a2.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	conf := testConfig()
	conf.ACCESS_TOKEN_TTL = time.Millisecond
	a := New(conf)
	u := testUser()

	raw, err := a.GenerateAccessToken(u)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = a.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.False(t, a.IsTokenValid(raw, u))
}
