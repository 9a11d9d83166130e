package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/types"
)

type EventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error)
	GetByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.Event, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Event, error)
	GetByUserIDSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Event, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, updates map[string]interface{}) error
	DeleteByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
}

type eventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEventRepo(db *gorm.DB, baseLog *logger.Logger) EventRepo {
	repoLog := baseLog.With("repo", "EventRepo")
	return &eventRepo{db: db, log: repoLog}
}

func (r *eventRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *eventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error) {
	if err := r.conn(tx).WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepo) GetByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.Event, error) {
	var event types.Event
	if err := r.conn(tx).WithContext(ctx).
		Where("id = ?", eventID).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Event, error) {
	var results []*types.Event
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) GetByUserIDSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Event, error) {
	var results []*types.Event
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND start_time >= ?", userID, since).
		Order("start_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *eventRepo) UpdateFields(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, updates map[string]interface{}) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Event{}).
		Where("id = ?", eventID).
		Updates(updates).Error
}

func (r *eventRepo) DeleteByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("id = ?", eventID).
		Delete(&types.Event{}).Error
}
