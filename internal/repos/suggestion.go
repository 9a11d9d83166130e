package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/types"
)

type SuggestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, suggestion *types.Suggestion) (*types.Suggestion, error)
	GetByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) (*types.Suggestion, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Suggestion, error)
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Suggestion, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) error
}

type suggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
	repoLog := baseLog.With("repo", "SuggestionRepo")
	return &suggestionRepo{db: db, log: repoLog}
}

func (r *suggestionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *suggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestion *types.Suggestion) (*types.Suggestion, error) {
	if err := r.conn(tx).WithContext(ctx).Create(suggestion).Error; err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (r *suggestionRepo) GetByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) (*types.Suggestion, error) {
	var suggestion types.Suggestion
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", suggestionID).
		First(&suggestion).Error; err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Suggestion, error) {
	if limit <= 0 {
		limit = 100
	}
	var results []*types.Suggestion
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *suggestionRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Suggestion, error) {
	var results []*types.Suggestion
	if err := r.conn(tx).WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *suggestionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, updates map[string]interface{}) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Suggestion{}).
		Where("id = ?", suggestionID).
		Updates(updates).Error
}

func (r *suggestionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ?", suggestionID).
		Delete(&types.Suggestion{}).Error
}
