package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/api/response"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/valyala/fasthttp"
)

// currentUserKey is where the authentication filter stores the resolved
// identity on the request.
const currentUserKey = "currentUser"

// requestContext returns a baseline context for handlers. fasthttp does not provide
// a standard context, so we start from Background for downstream calls.
func requestContext(_ *fasthttp.RequestCtx) context.Context {
	return context.Background()
}

// currentUser returns the identity attached by the authentication
// filter, or nil when the request is anonymous.
func currentUser(ctx *fasthttp.RequestCtx) *user.User {
	u, ok := ctx.UserValue(currentUserKey).(*user.User)
	if !ok {
		return nil
	}
	return u
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

// unauthenticated rejects a request that reached a protected handler
// without a resolved identity.
func unauthenticated(ctx *fasthttp.RequestCtx, stdCtx context.Context) {
	writeError(ctx, stdCtx, "Authentication required", perrors.NewErrUnauthorized("Authentication required", errors.New("no identity on request")))
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func optionalUUIDQuery(ctx *fasthttp.RequestCtx, key string) (*uuid.UUID, error) {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return nil, nil
	}

	id, err := uuid.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &id, nil
}

func intQueryOrDefault(ctx *fasthttp.RequestCtx, key string, def int) int {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return def
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return def
	}
	return n
}
