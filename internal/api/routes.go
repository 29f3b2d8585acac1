package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/nderitu/tma/internal/api/authenticator"
	"github.com/nderitu/tma/internal/api/controllers"
	"github.com/nderitu/tma/internal/services/token"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"
)

var tracePropagator = propagation.TraceContext{}

var (
	errTokenRevoked  = errors.New("token revoked or expired")
	errTokenMismatch = errors.New("token validation failed")
)

// isCredentialFailure separates bad credentials, which anonymous probes
// produce routinely, from store failures that need operator attention.
func isCredentialFailure(err error) bool {
	return errors.Is(err, authenticator.ErrInvalidToken) ||
		errors.Is(err, authenticator.ErrExpiredToken) ||
		errors.Is(err, token.ErrTokenNotFound) ||
		errors.Is(err, user.ErrUserNotFound) ||
		errors.Is(err, errTokenRevoked) ||
		errors.Is(err, errTokenMismatch)
}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	controllers.RegisterAuthRoutes(r, s.services)
	controllers.RegisterTaskRoutes(r, s.services)
	controllers.RegisterUserRoutes(r, s.services)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Bearer resolution. Auth bootstrap endpoints skip it; for
		// everything else a failure leaves the request anonymous and
		// downstream authorization rejects it (fail-closed).
		if !isPublicRoute(ctx) && ctx.UserValue("currentUser") == nil {
			u, err := s.resolveIdentity(ctx)
			if err != nil {
				if isCredentialFailure(err) {
					slog.Debug("Rejected request credential", slog.Any("error", err), slog.String("request_uri", requestURI))
				} else {
					slog.Error("Failed to resolve request identity", slog.Any("error", err), slog.String("request_uri", requestURI))
				}
			} else if u != nil {
				ctx.SetUserValue("currentUser", u)
			}
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

// resolveIdentity authenticates the request's bearer token against both
// the signature and the stored session record. A missing or non-Bearer
// header is not an error; the request is simply anonymous.
func (s *Server) resolveIdentity(ctx *fasthttp.RequestCtx) (*user.User, error) {
	authHeader := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, nil
	}
	raw := strings.TrimPrefix(authHeader, "Bearer ")

	username, err := s.services.JWT.ExtractUsername(raw)
	if err != nil {
		return nil, err
	}

	stdCtx := context.Background()

	rec, err := s.services.Tokens.GetByToken(stdCtx, raw)
	if err != nil {
		return nil, err
	}
	if !rec.Live() {
		return nil, errTokenRevoked
	}

	u, err := s.services.Users.GetByUsername(stdCtx, username)
	if err != nil {
		return nil, err
	}

	if !s.services.JWT.IsTokenValid(raw, u) {
		return nil, errTokenMismatch
	}

	return u, nil
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

// isPublicRoute reports whether the path is reachable without a bearer
// token. The auth entry points must stay public for bootstrap.
func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	switch path {
	case "/api/health",
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh-token":
		return true
	default:
		return false
	}
}
