package event

import (
	"github.com/labstack/echo/v4"

	"community-events-api/core/database"
	"community-events-api/core/middleware"
	"community-events-api/modules/event/controller"
	"community-events-api/modules/event/repository"
	"community-events-api/modules/event/router"
	"community-events-api/modules/event/service"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo)
	ctrl := controller.NewEventController(svc)
	rtr := router.NewEventRouter(ctrl)

	rtr.Setup(e, mw)
}
