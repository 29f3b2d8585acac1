package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nderitu/tma/internal/seed"
	"github.com/nderitu/tma/internal/services"
	"github.com/valyala/fasthttp"

	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/migrations"
)

// Server is the task management REST server.
type Server struct {
	srv      *fasthttp.Server
	addr     string
	services *services.Services
}

// New runs pending migrations, wires the services and loads seed data
// before returning a ready-to-start server.
func New() *Server {
	conf := config.ReadConfig()

	m, err := migrations.NewMigrator()
	if err != nil {
		panic("unable to create migrator")
	}

	err = m.Up(0)
	if err != nil {
		panic("unable to run migrations")
	}

	s := &Server{
		srv:      &fasthttp.Server{},
		addr:     fmt.Sprintf("0.0.0.0:%s", conf.HTTP_PORT),
		services: services.NewServices(conf),
	}

	if conf.SEED_FILE != "" {
		if err := seed.Load(context.Background(), conf.SEED_FILE, s.services); err != nil {
			slog.Warn("Seed data loading failed", slog.Any("error", err))
		}
	}

	s.srv.Handler = s.initRoutes()

	return s
}

// Start the rest server
func (s *Server) Start() {
	slog.Info("Starting REST server...", slog.String("addr", s.addr))
	go func() {
		if err := s.srv.ListenAndServe(s.addr); err != nil {
			slog.Error("Server shutdown", slog.Any("error", err))
		}
	}()
	slog.Info("REST server started!")

	// Listen for OS interrupts
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block till we receive an interrupt
	<-c
	slog.Info("Received interrupt...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s.shutdown(ctx)
}

func (s *Server) shutdown(ctx context.Context) {
	slog.Info("Gracefully shutting down REST server...")
	if err := s.srv.Shutdown(); err != nil {
		slog.Error("Failed to shutdown the server", slog.Any("error", err))
	}
	slog.Info("REST server shutdown!")
}
