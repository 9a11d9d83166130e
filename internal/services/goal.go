package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/repos"
	"github.com/timewell/timewell-backend/internal/requestdata"
	"github.com/timewell/timewell-backend/internal/types"
)

type GoalService interface {
	CreateGoal(ctx context.Context, goal *types.Goal) (*types.Goal, error)
	GetGoal(ctx context.Context, goalID uuid.UUID) (*types.Goal, error)
	ListGoals(ctx context.Context, limit, offset int) ([]*types.Goal, error)
	ListActiveGoals(ctx context.Context) ([]*types.Goal, error)
	UpdateGoal(ctx context.Context, goalID uuid.UUID, updates map[string]interface{}) (*types.Goal, error)
	CompleteGoal(ctx context.Context, goalID uuid.UUID) (*types.Goal, error)
	DeleteGoal(ctx context.Context, goalID uuid.UUID) error
}

type goalService struct {
	db       *gorm.DB
	log      *logger.Logger
	goalRepo repos.GoalRepo
}

func NewGoalService(db *gorm.DB, log *logger.Logger, goalRepo repos.GoalRepo) GoalService {
	serviceLog := log.With("service", "GoalService")
	return &goalService{db: db, log: serviceLog, goalRepo: goalRepo}
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "missing_auth", errors.New("no authenticated user in context"))
	}
	return rd.UserID, nil
}

func (gs *goalService) CreateGoal(ctx context.Context, goal *types.Goal) (*types.Goal, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Title == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("goal title is required"))
	}
	goal.ID = uuid.New()
	goal.UserID = userID
	goal.IsCompleted = false
	created, cErr := gs.goalRepo.Create(ctx, nil, goal)
	if cErr != nil {
		return nil, fmt.Errorf("failed to create goal: %w", cErr)
	}
	return created, nil
}

func (gs *goalService) GetGoal(ctx context.Context, goalID uuid.UUID) (*types.Goal, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return gs.ownedGoal(ctx, userID, goalID)
}

func (gs *goalService) ListGoals(ctx context.Context, limit, offset int) ([]*types.Goal, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	goals, lErr := gs.goalRepo.GetByUserID(ctx, nil, userID, limit, offset)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list goals: %w", lErr)
	}
	return goals, nil
}

func (gs *goalService) ListActiveGoals(ctx context.Context) ([]*types.Goal, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	goals, lErr := gs.goalRepo.GetActiveByUserID(ctx, nil, userID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", lErr)
	}
	return goals, nil
}

func (gs *goalService) UpdateGoal(ctx context.Context, goalID uuid.UUID, updates map[string]interface{}) (*types.Goal, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, oErr := gs.ownedGoal(ctx, userID, goalID); oErr != nil {
		return nil, oErr
	}
	allowed := map[string]bool{
		"title": true, "description": true, "target_date": true, "is_completed": true,
	}
	filtered := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) > 0 {
		if uErr := gs.goalRepo.UpdateFields(ctx, nil, goalID, filtered); uErr != nil {
			return nil, fmt.Errorf("failed to update goal: %w", uErr)
		}
	}
	return gs.goalRepo.GetByID(ctx, nil, goalID)
}

func (gs *goalService) CompleteGoal(ctx context.Context, goalID uuid.UUID) (*types.Goal, error) {
	return gs.UpdateGoal(ctx, goalID, map[string]interface{}{"is_completed": true})
}

func (gs *goalService) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if _, oErr := gs.ownedGoal(ctx, userID, goalID); oErr != nil {
		return oErr
	}
	if dErr := gs.goalRepo.DeleteByID(ctx, nil, goalID); dErr != nil {
		return fmt.Errorf("failed to delete goal: %w", dErr)
	}
	return nil
}

func (gs *goalService) ownedGoal(ctx context.Context, userID, goalID uuid.UUID) (*types.Goal, error) {
	goal, err := gs.goalRepo.GetByID(ctx, nil, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "goal_not_found", errors.New("goal not found"))
		}
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	if goal.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("goal belongs to another user"))
	}
	return goal, nil
}
