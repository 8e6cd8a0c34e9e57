package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server and blocks until an interrupt or terminate
// signal arrives, then shuts everything down: modules in reverse boot
// order, then the HTTP listener, the bus, and the database connection.
func (s *Server) Start() {
	addr := s.Cfg.GetServerAddr()

	go func() {
		if err := s.E.Start(addr); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()
	slog.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i := len(AppModules) - 1; i >= 0; i-- {
		if err := AppModules[i].Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", AppModules[i].Name(), "error", err)
		}
	}

	if err := s.E.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if err := s.bus.Close(); err != nil {
		slog.Error("Bus shutdown failed", "error", err)
	}
	s.DB.Close(ctx)
	slog.Info("Server stopped")
}
