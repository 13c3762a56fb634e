package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"community-events-api/core/config"
	"community-events-api/core/database"
	"community-events-api/core/logger"
	"community-events-api/core/middleware"
	"community-events-api/modules/event"
)

// Run wires configuration, database, middleware and modules, then starts the server.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Logger.Level)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(cfg)

	// Module registration
	event.Init(e, &db, mw)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server", "addr", addr)
	return e.Start(addr)
}
