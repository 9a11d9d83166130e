package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/repos"
	"github.com/timewell/timewell-backend/internal/types"
)

type HabitService interface {
	CreateHabit(ctx context.Context, habit *types.Habit) (*types.Habit, error)
	GetHabit(ctx context.Context, habitID uuid.UUID) (*types.Habit, error)
	ListHabits(ctx context.Context) ([]*types.Habit, error)
	UpdateHabit(ctx context.Context, habitID uuid.UUID, updates map[string]interface{}) (*types.Habit, error)
	CompleteHabit(ctx context.Context, habitID uuid.UUID) (*types.Habit, error)
	IncrementStreak(ctx context.Context, habitID uuid.UUID) (*types.Habit, error)
	ResetStreak(ctx context.Context, habitID uuid.UUID) (*types.Habit, error)
	DeleteHabit(ctx context.Context, habitID uuid.UUID) error
}

type habitService struct {
	db        *gorm.DB
	log       *logger.Logger
	habitRepo repos.HabitRepo
}

func NewHabitService(db *gorm.DB, log *logger.Logger, habitRepo repos.HabitRepo) HabitService {
	serviceLog := log.With("service", "HabitService")
	return &habitService{db: db, log: serviceLog, habitRepo: habitRepo}
}

func (hs *habitService) CreateHabit(ctx context.Context, habit *types.Habit) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	habit.Title = strings.TrimSpace(habit.Title)
	if habit.Title == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("habit title is required"))
	}
	if habit.Frequency == "" {
		habit.Frequency = "daily"
	}
	habit.ID = uuid.New()
	habit.UserID = userID
	habit.StreakCount = 0
	habit.LongestStreak = 0
	habit.IsActive = true
	created, cErr := hs.habitRepo.Create(ctx, nil, habit)
	if cErr != nil {
		return nil, fmt.Errorf("failed to create habit: %w", cErr)
	}
	return created, nil
}

func (hs *habitService) GetHabit(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return hs.ownedHabit(ctx, userID, habitID)
}

func (hs *habitService) ListHabits(ctx context.Context) ([]*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	habits, lErr := hs.habitRepo.GetByUserID(ctx, nil, userID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list habits: %w", lErr)
	}
	return habits, nil
}

func (hs *habitService) UpdateHabit(ctx context.Context, habitID uuid.UUID, updates map[string]interface{}) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, oErr := hs.ownedHabit(ctx, userID, habitID); oErr != nil {
		return nil, oErr
	}
	allowed := map[string]bool{
		"title": true, "description": true, "frequency": true, "target_days": true,
		"color": true, "icon": true, "is_active": true,
	}
	filtered := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) > 0 {
		if uErr := hs.habitRepo.UpdateFields(ctx, nil, habitID, filtered); uErr != nil {
			return nil, fmt.Errorf("failed to update habit: %w", uErr)
		}
	}
	return hs.habitRepo.GetByID(ctx, nil, habitID)
}

// advanceStreak computes the next streak pair after a completion or manual
// increment. The longest streak never decreases.
func advanceStreak(streak, longest int) (int, int) {
	streak++
	if streak > longest {
		longest = streak
	}
	return streak, longest
}

// CompleteHabit records a completion: the streak grows by one, the longest
// streak follows it, and last_completed moves to now.
func (hs *habitService) CompleteHabit(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	var updated *types.Habit
	txErr := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habit, oErr := hs.ownedHabitTx(ctx, tx, userID, habitID)
		if oErr != nil {
			return oErr
		}
		now := time.Now().UTC()
		streak, longest := advanceStreak(habit.StreakCount, habit.LongestStreak)
		if uErr := hs.habitRepo.UpdateFields(ctx, tx, habitID, map[string]interface{}{
			"streak_count":   streak,
			"longest_streak": longest,
			"last_completed": now,
		}); uErr != nil {
			return fmt.Errorf("failed to record habit completion: %w", uErr)
		}
		fresh, gErr := hs.habitRepo.GetByID(ctx, tx, habitID)
		if gErr != nil {
			return gErr
		}
		updated = fresh
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

func (hs *habitService) IncrementStreak(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	var updated *types.Habit
	txErr := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		habit, oErr := hs.ownedHabitTx(ctx, tx, userID, habitID)
		if oErr != nil {
			return oErr
		}
		streak, longest := advanceStreak(habit.StreakCount, habit.LongestStreak)
		if uErr := hs.habitRepo.UpdateFields(ctx, tx, habitID, map[string]interface{}{
			"streak_count":   streak,
			"longest_streak": longest,
		}); uErr != nil {
			return fmt.Errorf("failed to increment streak: %w", uErr)
		}
		fresh, gErr := hs.habitRepo.GetByID(ctx, tx, habitID)
		if gErr != nil {
			return gErr
		}
		updated = fresh
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

// ResetStreak zeroes the current streak. The longest streak is untouched.
func (hs *habitService) ResetStreak(ctx context.Context, habitID uuid.UUID) (*types.Habit, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, oErr := hs.ownedHabit(ctx, userID, habitID); oErr != nil {
		return nil, oErr
	}
	if uErr := hs.habitRepo.UpdateFields(ctx, nil, habitID, map[string]interface{}{
		"streak_count": 0,
	}); uErr != nil {
		return nil, fmt.Errorf("failed to reset streak: %w", uErr)
	}
	return hs.habitRepo.GetByID(ctx, nil, habitID)
}

func (hs *habitService) DeleteHabit(ctx context.Context, habitID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if _, oErr := hs.ownedHabit(ctx, userID, habitID); oErr != nil {
		return oErr
	}
	if dErr := hs.habitRepo.DeleteByID(ctx, nil, habitID); dErr != nil {
		return fmt.Errorf("failed to delete habit: %w", dErr)
	}
	return nil
}

func (hs *habitService) ownedHabit(ctx context.Context, userID, habitID uuid.UUID) (*types.Habit, error) {
	return hs.ownedHabitTx(ctx, nil, userID, habitID)
}

func (hs *habitService) ownedHabitTx(ctx context.Context, tx *gorm.DB, userID, habitID uuid.UUID) (*types.Habit, error) {
	habit, err := hs.habitRepo.GetByID(ctx, tx, habitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "habit_not_found", errors.New("habit not found"))
		}
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	if habit.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("habit belongs to another user"))
	}
	return habit, nil
}
