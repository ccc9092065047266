package grpc

import (
	"context"
	"net"
	"time"

	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type App struct {
	srv    *grpc.Server
	health *health.Server
}

func NewGrpc() *App {
	server := &App{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
	}

	grpc_health_v1.RegisterHealthServer(server.srv, server.health)
	reflection.Register(server.srv)

	return server
}

// RefreshHealth reports the service as serving while its database answers.
func (v *App) RefreshHealth() {
	status := grpc_health_v1.HealthCheckResponse_SERVING

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if db, err := database.C.DB(); err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	} else if err := db.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Database is unreachable, reporting not serving...")
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	v.health.SetServingStatus("", status)
}

func (v *App) Serve(listener net.Listener) error {
	return v.srv.Serve(listener)
}

func (v *App) Listen() error {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		return err
	}
	return v.Serve(listener)
}

func (v *App) Stop() {
	v.health.Shutdown()
	v.srv.GracefulStop()
}
