package app

import (
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	User       services.UserService
	Goal       services.GoalService
	Event      services.EventService
	Habit      services.HabitService
	Suggestion services.SuggestionService
	Coach      services.CoachService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:       services.NewUserService(db, log, r.User),
		Goal:       services.NewGoalService(db, log, r.Goal),
		Event:      services.NewEventService(db, log, r.Event, r.Goal),
		Habit:      services.NewHabitService(db, log, r.Habit),
		Suggestion: services.NewSuggestionService(db, log, r.Suggestion, r.Event),
		Coach:      services.NewCoachService(log, clients.OpenAI, r.User, r.Goal, r.Event, r.Suggestion),
	}
}
