package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/types"
)

type HabitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, habit *types.Habit) (*types.Habit, error)
	GetByID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Habit, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Habit, error)
	GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Habit, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) error
}

type habitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
	repoLog := baseLog.With("repo", "HabitRepo")
	return &habitRepo{db: db, log: repoLog}
}

func (r *habitRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *habitRepo) Create(ctx context.Context, tx *gorm.DB, habit *types.Habit) (*types.Habit, error) {
	if err := r.conn(tx).WithContext(ctx).Create(habit).Error; err != nil {
		return nil, err
	}
	return habit, nil
}

func (r *habitRepo) GetByID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) (*types.Habit, error) {
	var habit types.Habit
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", habitID).
		First(&habit).Error; err != nil {
		return nil, err
	}
	return &habit, nil
}

func (r *habitRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Habit, error) {
	var results []*types.Habit
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Habit, error) {
	var results []*types.Habit
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitRepo) UpdateFields(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, updates map[string]interface{}) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Habit{}).
		Where("id = ?", habitID).
		Updates(updates).Error
}

func (r *habitRepo) DeleteByID(ctx context.Context, tx *gorm.DB, habitID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ?", habitID).
		Delete(&types.Habit{}).Error
}
