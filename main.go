package main

import (
	"community-events-api/core/logger"
	"community-events-api/core/server"
)

// @title Community Events API
// @version 1.0
// @description Backend for the community/events platform admin console. Owns the recurring-event engine: occurrence generation, series materialization and cross-series edits.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
