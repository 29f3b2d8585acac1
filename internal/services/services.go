package services

import (
	"github.com/nderitu/tma/internal/api/authenticator"
	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/db"
	"github.com/nderitu/tma/internal/services/auth"
	"github.com/nderitu/tma/internal/services/task"
	"github.com/nderitu/tma/internal/services/token"
	"github.com/nderitu/tma/internal/services/user"
)

type Services struct {
	Auth *auth.AuthService
	User *user.UserService
	Task *task.TaskService

	// Repos the request authentication filter resolves identities
	// against on every request.
	Users  *user.UserRepo
	Tokens *token.TokenRepo

	JWT *authenticator.Authenticator
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	jwt := authenticator.New(conf)
	userRepo := user.NewUserRepo(dbconn)
	tokenRepo := token.NewTokenRepo(dbconn)
	taskRepo := task.NewTaskRepo(dbconn)

	return &Services{
		Auth:   auth.NewAuthService(userRepo, tokenRepo, jwt),
		User:   user.NewUserService(userRepo),
		Task:   task.NewTaskService(taskRepo, userRepo),
		Users:  userRepo,
		Tokens: tokenRepo,
		JWT:    jwt,
	}
}
