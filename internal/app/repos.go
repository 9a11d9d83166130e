package app

import (
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Goal       repos.GoalRepo
	Event      repos.EventRepo
	Habit      repos.HabitRepo
	Suggestion repos.SuggestionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Goal:       repos.NewGoalRepo(db, log),
		Event:      repos.NewEventRepo(db, log),
		Habit:      repos.NewHabitRepo(db, log),
		Suggestion: repos.NewSuggestionRepo(db, log),
	}
}
