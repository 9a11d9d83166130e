package app

import (
	"github.com/timewell/timewell-backend/internal/handlers"
	"github.com/timewell/timewell-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Goal       *handlers.GoalHandler
	Event      *handlers.EventHandler
	Habit      *handlers.HabitHandler
	Suggestion *handlers.SuggestionHandler
	Coach      *handlers.CoachHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(services.Auth),
		User:       handlers.NewUserHandler(services.User),
		Goal:       handlers.NewGoalHandler(services.Goal),
		Event:      handlers.NewEventHandler(services.Event, services.Coach),
		Habit:      handlers.NewHabitHandler(services.Habit),
		Suggestion: handlers.NewSuggestionHandler(services.Suggestion),
		Coach:      handlers.NewCoachHandler(services.Coach),
	}
}
