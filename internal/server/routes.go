package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes wires the core routes, then registers and boots every
// application module. The bridge must start consuming broadcast topics
// before any module can publish, so it is started first.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	if err := s.bridge.Start(ctx); err != nil {
		return fmt.Errorf("start websocket bridge: %w", err)
	}

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/ws", s.bridge.Handler())

	api := s.E.Group("/api")
	api.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))

	for _, m := range AppModules {
		if err := m.Register(s.Registry); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	for _, m := range AppModules {
		if err := m.Boot(ctx, api, s.Registry); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}

	return nil
}
