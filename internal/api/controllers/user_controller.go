package controllers

import (
	"github.com/fasthttp/router"
	"github.com/nderitu/tma/internal/services"
	"github.com/valyala/fasthttp"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	r.GET("/api/v1/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		users, err := svc.User.List(stdCtx, actor)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list users", err)
			return
		}

		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}

		writeOK(ctx, stdCtx, "success", out)
	})

	// Current identity, resolved from the bearer token.
	r.GET("/api/v1/users/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		writeOK(ctx, stdCtx, "success", toUserResponse(actor))
	})
}
