package response

import (
	"context"
	"errors"
	"testing"

	"github.com/nderitu/tma/internal/perrors"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestWithErrorTakesStatusFromCodedError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid request", err: perrors.NewErrInvalidRequest("bad input", errors.New("boom")), status: 400},
		{name: "unauthorized", err: perrors.NewErrUnauthorized("no token", errors.New("boom")), status: 401},
		{name: "forbidden", err: perrors.NewErrForbidden("not allowed", errors.New("boom")), status: 403},
		{name: "not found", err: perrors.NewErrNotFound("missing", errors.New("boom")), status: 404},
		{name: "conflict", err: perrors.NewErrConflict("duplicate", errors.New("boom")), status: 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResponse[any](context.Background(), tt.name, nil).WithError(tt.err)
			assert.Equal(t, tt.status, r.Status)
			assert.True(t, r.Error)
		})
	}
}

func TestWithErrorNeverReportsSuccessStatus(t *testing.T) {
	// plain errors with no embedded code fall back to 500, not the
	// default 200
	r := NewResponse[any](context.Background(), "something failed", nil).WithError(errors.New("boom"))
	assert.Equal(t, 500, r.Status)
	assert.True(t, r.Error)
}

func TestWriteSetsStatusCode(t *testing.T) {
	var ctx fasthttp.RequestCtx

	NewResponse[any](context.Background(), "bad input", nil).
		WithError(perrors.NewErrInvalidRequest("bad input", errors.New("boom"))).
		Write(&ctx)

	assert.Equal(t, 400, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}
