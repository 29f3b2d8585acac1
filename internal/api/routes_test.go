package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nderitu/tma/internal/api/authenticator"
	"github.com/nderitu/tma/internal/services/token"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestIsPublicRoute(t *testing.T) {
	public := []string{
		"/api/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh-token",
	}
	protected := []string{
		"/api/v1/tasks",
		"/api/v1/tasks/my-tasks",
		"/api/v1/users",
		"/api/v1/users/me",
		"/api/v1/auth/register/extra",
	}

	for _, path := range public {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI(path)
		assert.Truef(t, isPublicRoute(&ctx), "%s should be public", path)
	}
	for _, path := range protected {
		var ctx fasthttp.RequestCtx
		ctx.Request.SetRequestURI(path)
		assert.Falsef(t, isPublicRoute(&ctx), "%s should require a token", path)
	}
}

func TestIsCredentialFailure(t *testing.T) {
	credential := []error{
		authenticator.ErrInvalidToken,
		authenticator.ErrExpiredToken,
		token.ErrTokenNotFound,
		user.ErrUserNotFound,
		errTokenRevoked,
		errTokenMismatch,
		fmt.Errorf("failed to get token: %w", token.ErrTokenNotFound),
	}
	for _, err := range credential {
		assert.Truef(t, isCredentialFailure(err), "%v is a routine credential failure", err)
	}

	assert.False(t, isCredentialFailure(errors.New("connection refused")))
	assert.False(t, isCredentialFailure(errors.New("failed to get token: driver: bad connection")))
}
