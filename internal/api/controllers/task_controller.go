package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services"
	"github.com/nderitu/tma/internal/services/task"
	"github.com/valyala/fasthttp"
)

type TaskListResponse struct {
	Items  []*task.TaskView `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func RegisterTaskRoutes(r *router.Router, svc *services.Services) {
	r.POST("/api/v1/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		var req task.CreateTaskRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		view, err := svc.Task.Create(stdCtx, actor, req)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create task", err)
			return
		}

		writeOK(ctx, stdCtx, "success", view)
	})

	r.GET("/api/v1/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		assigneeID, err := optionalUUIDQuery(ctx, "assignee")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid assignee filter", perrors.NewErrInvalidRequest("Invalid assignee filter", err))
			return
		}

		filter := task.ListFilter{
			AssigneeID: assigneeID,
			Limit:      intQueryOrDefault(ctx, "limit", 20),
			Offset:     intQueryOrDefault(ctx, "offset", 0),
		}
		if raw := ctx.QueryArgs().Peek("status"); len(raw) > 0 {
			status := task.TaskStatus(raw)
			filter.Status = &status
		}

		items, total, err := svc.Task.List(stdCtx, actor, filter)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "success", TaskListResponse{
			Items:  items,
			Total:  total,
			Limit:  filter.Limit,
			Offset: filter.Offset,
		})
	})

	r.GET("/api/v1/tasks/my-tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		items, err := svc.Task.MyTasks(stdCtx, actor)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "success", items)
	})

	r.GET("/api/v1/tasks/created-by-me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		items, err := svc.Task.CreatedByMe(stdCtx, actor)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "success", items)
	})

	r.GET("/api/v1/tasks/status/{status}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		status, err := pathParam(ctx, "status")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid status", perrors.NewErrInvalidRequest("Invalid status", err))
			return
		}

		items, err := svc.Task.ByStatus(stdCtx, actor, task.TaskStatus(status))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list tasks", err)
			return
		}

		writeOK(ctx, stdCtx, "success", items)
	})

	r.GET("/api/v1/tasks/{taskId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		taskID, err := pathParamUUID(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task id", perrors.NewErrInvalidRequest("Invalid task id", err))
			return
		}

		view, err := svc.Task.Get(stdCtx, actor, taskID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get task", err)
			return
		}

		writeOK(ctx, stdCtx, "success", view)
	})

	r.PUT("/api/v1/tasks/{taskId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		taskID, err := pathParamUUID(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task id", perrors.NewErrInvalidRequest("Invalid task id", err))
			return
		}

		var req task.UpdateTaskRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		view, err := svc.Task.Update(stdCtx, actor, taskID, req)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update task", err)
			return
		}

		writeOK(ctx, stdCtx, "success", view)
	})

	r.PUT("/api/v1/tasks/{taskId}/status", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		taskID, err := pathParamUUID(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task id", perrors.NewErrInvalidRequest("Invalid task id", err))
			return
		}

		status := string(ctx.QueryArgs().Peek("status"))
		if status == "" {
			writeError(ctx, stdCtx, "status parameter is required", perrors.NewErrInvalidRequest("status parameter is required", errors.New("missing status")))
			return
		}

		view, err := svc.Task.UpdateStatus(stdCtx, actor, taskID, task.TaskStatus(status))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update task status", err)
			return
		}

		writeOK(ctx, stdCtx, "success", view)
	})

	r.POST("/api/v1/tasks/{taskId}/assign", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		taskID, err := pathParamUUID(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task id", perrors.NewErrInvalidRequest("Invalid task id", err))
			return
		}

		assigneeID, err := optionalUUIDQuery(ctx, "assigneeId")
		if err != nil || assigneeID == nil {
			writeError(ctx, stdCtx, "assigneeId parameter is required", perrors.NewErrInvalidRequest("assigneeId parameter is required", errors.New("missing assigneeId")))
			return
		}

		view, err := svc.Task.Assign(stdCtx, actor, taskID, *assigneeID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to assign task", err)
			return
		}

		writeOK(ctx, stdCtx, "success", view)
	})

	r.DELETE("/api/v1/tasks/{taskId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		actor := currentUser(ctx)
		if actor == nil {
			unauthenticated(ctx, stdCtx)
			return
		}

		taskID, err := pathParamUUID(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid task id", perrors.NewErrInvalidRequest("Invalid task id", err))
			return
		}

		if err := svc.Task.Delete(stdCtx, actor, taskID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete task", err)
			return
		}

		writeOK(ctx, stdCtx, "success", map[string]any{"message": "Task deleted"})
	})
}
