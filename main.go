package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
	"github.com/FACorreiaa/go-concierge/internal/routes"
	"github.com/FACorreiaa/go-concierge/internal/server"
	"github.com/FACorreiaa/go-concierge/pkg/logger"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if err := logger.Init(level, zap.String("service", cfg.ServiceName), zap.String("version", version)); err != nil {
		return err
	}
	defer logger.Log.Sync()

	otelShutdown, err := server.InitObservability(cfg, version, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(context.Background(), cfg, logger.Log)
	if err != nil {
		return err
	}
	defer srv.Close()

	handlers := routes.NewAppHandlers(cfg, srv.Provider(), srv.Registry(), logger.Log)
	srv.SetRouter(server.SetupRouter(cfg, handlers, logger.Log))

	pprofServer := server.StartPprofServer(cfg.PprofAddr, logger.Log)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger.Log, done, pprofServer)

	logger.Log.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	logger.Log.Info("Graceful shutdown complete")

	return nil
}
