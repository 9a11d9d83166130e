package app

import (
	"github.com/gin-gonic/gin"

	"github.com/timewell/timewell-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowOrigins:      cfg.AllowOrigins,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		GoalHandler:       handlers.Goal,
		EventHandler:      handlers.Event,
		HabitHandler:      handlers.Habit,
		SuggestionHandler: handlers.Suggestion,
		CoachHandler:      handlers.Coach,
	})
}
