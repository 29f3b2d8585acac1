package controllers

import (
	"errors"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services"
	"github.com/nderitu/tma/internal/services/auth"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/valyala/fasthttp"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

func toAuthResponse(res *auth.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toUserResponse(res.User),
	}
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/auth/register", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req auth.RegisterRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeError(ctx, stdCtx, "Username, email and password are required", perrors.NewErrInvalidRequest("Username, email and password are required", errors.New("missing fields")))
			return
		}

		res, err := svc.Auth.Register(stdCtx, req)
		if err != nil {
			writeError(ctx, stdCtx, "Registration failed", err)
			return
		}

		writeOK(ctx, stdCtx, "success", toAuthResponse(res))
	})

	r.POST("/api/v1/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if req.Username == "" || req.Password == "" {
			writeError(ctx, stdCtx, "Username and password are required", perrors.NewErrInvalidRequest("Username and password are required", errors.New("missing credentials")))
			return
		}

		res, err := svc.Auth.Login(stdCtx, req.Username, req.Password)
		if err != nil {
			writeError(ctx, stdCtx, "Login failed", err)
			return
		}

		writeOK(ctx, stdCtx, "success", toAuthResponse(res))
	})

	// The refresh token travels in the Authorization header. A missing
	// or non-Bearer header is a silent no-op so probes learn nothing
	// about token validity.
	r.POST("/api/v1/auth/refresh-token", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		authHeader := string(ctx.Request.Header.Peek("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			ctx.SetStatusCode(fasthttp.StatusOK)
			return
		}

		res, err := svc.Auth.Refresh(stdCtx, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			writeError(ctx, stdCtx, "Token refresh failed", err)
			return
		}

		writeOK(ctx, stdCtx, "success", toAuthResponse(res))
	})
}
