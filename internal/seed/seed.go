package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	json "github.com/bytedance/sonic"
	"github.com/nderitu/tma/internal/services"
	"github.com/nderitu/tma/internal/services/auth"
	"github.com/nderitu/tma/internal/services/task"
	"github.com/nderitu/tma/internal/services/user"
)

type SeedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SeedTask struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	AssigneeEmail string `json:"assigneeEmail"`
	CreatorEmail  string `json:"creatorEmail"`
}

type SeedData struct {
	Users []SeedUser `json:"users"`
	Tasks []SeedTask `json:"tasks"`
}

// Load reads the seed file and feeds users through the register path
// and tasks through the task creation path. Per-item failures are
// logged and skipped; only an unreadable file aborts.
func Load(ctx context.Context, path string, svc *services.Services) error {
	slog.Info("Loading seed data...", slog.String("file", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	userMap := createUsers(ctx, svc, data.Users)
	createTasks(ctx, svc, data.Tasks, userMap)

	slog.Info("Seed data loaded")
	return nil
}

func createUsers(ctx context.Context, svc *services.Services, seedUsers []SeedUser) map[string]*user.User {
	userMap := map[string]*user.User{}

	for _, su := range seedUsers {
		if existing, err := svc.Users.GetByEmail(ctx, su.Email); err == nil {
			slog.Info("User already exists, skipping...", slog.String("email", su.Email))
			userMap[su.Email] = existing
			continue
		}

		res, err := svc.Auth.Register(ctx, auth.RegisterRequest{
			Username: su.Username,
			Email:    su.Email,
			Password: su.Password,
			Role:     user.UserRole(su.Role),
		})
		if err != nil {
			slog.Error("Failed to create seed user", slog.String("email", su.Email), slog.Any("error", err))
			continue
		}

		userMap[su.Email] = res.User
		slog.Info("Created seed user", slog.String("username", su.Username), slog.String("email", su.Email))
	}

	return userMap
}

func createTasks(ctx context.Context, svc *services.Services, seedTasks []SeedTask, userMap map[string]*user.User) {
	for _, st := range seedTasks {
		creator := userMap[st.CreatorEmail]
		assignee := userMap[st.AssigneeEmail]

		if creator == nil || assignee == nil {
			slog.Error("Cannot create seed task: assignee or creator not found", slog.String("title", st.Title))
			continue
		}

		req := task.CreateTaskRequest{
			Title:       st.Title,
			Description: st.Description,
			Status:      task.TaskStatus(st.Status),
			Priority:    task.TaskPriority(st.Priority),
			AssigneeID:  &assignee.ID,
		}

		if _, err := svc.Task.Create(ctx, creator, req); err != nil {
			slog.Error("Failed to create seed task", slog.String("title", st.Title), slog.Any("error", err))
			continue
		}

		slog.Info("Created seed task", slog.String("title", st.Title), slog.String("assignee", assignee.Username))
	}
}
