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

type EventService interface {
	CreateEvent(ctx context.Context, event *types.Event) (*types.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error)
	ListEvents(ctx context.Context) ([]*types.Event, error)
	ListEventsSince(ctx context.Context, since time.Time) ([]*types.Event, error)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, updates map[string]interface{}) (*types.Event, error)
	CompleteEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
	goalRepo  repos.GoalRepo
}

func NewEventService(db *gorm.DB, log *logger.Logger, eventRepo repos.EventRepo, goalRepo repos.GoalRepo) EventService {
	serviceLog := log.With("service", "EventService")
	return &eventService{db: db, log: serviceLog, eventRepo: eventRepo, goalRepo: goalRepo}
}

func (es *eventService) CreateEvent(ctx context.Context, event *types.Event) (*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("event title is required"))
	}
	if event.StartTime.IsZero() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("event start_time is required"))
	}
	if event.EndTime != nil && event.EndTime.Before(event.StartTime) {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("event end_time must not precede start_time"))
	}
	if event.GoalID != nil {
		goal, gErr := es.goalRepo.GetByID(ctx, nil, *event.GoalID)
		if gErr != nil {
			if errors.Is(gErr, gorm.ErrRecordNotFound) {
				return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("linked goal does not exist"))
			}
			return nil, fmt.Errorf("failed to check linked goal: %w", gErr)
		}
		if goal.UserID != userID {
			return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("linked goal belongs to another user"))
		}
	}
	event.ID = uuid.New()
	event.UserID = userID
	created, cErr := es.eventRepo.Create(ctx, nil, event)
	if cErr != nil {
		return nil, fmt.Errorf("failed to create event: %w", cErr)
	}
	return created, nil
}

func (es *eventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return es.ownedEvent(ctx, userID, eventID)
}

func (es *eventService) ListEvents(ctx context.Context) ([]*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	events, lErr := es.eventRepo.GetByUserID(ctx, nil, userID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list events: %w", lErr)
	}
	return events, nil
}

func (es *eventService) ListEventsSince(ctx context.Context, since time.Time) ([]*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	events, lErr := es.eventRepo.GetByUserIDSince(ctx, nil, userID, since)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list events since %s: %w", since.Format(time.RFC3339), lErr)
	}
	return events, nil
}

func (es *eventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, updates map[string]interface{}) (*types.Event, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, oErr := es.ownedEvent(ctx, userID, eventID); oErr != nil {
		return nil, oErr
	}
	allowed := map[string]bool{
		"title": true, "description": true, "goal_id": true,
		"start_time": true, "end_time": true, "is_completed": true,
	}
	filtered := map[string]interface{}{}
	for k, v := range updates {
		if allowed[k] {
			filtered[k] = v
		}
	}
	if len(filtered) > 0 {
		if uErr := es.eventRepo.UpdateFields(ctx, nil, eventID, filtered); uErr != nil {
			return nil, fmt.Errorf("failed to update event: %w", uErr)
		}
	}
	return es.eventRepo.GetByID(ctx, nil, eventID)
}

func (es *eventService) CompleteEvent(ctx context.Context, eventID uuid.UUID) (*types.Event, error) {
	return es.UpdateEvent(ctx, eventID, map[string]interface{}{"is_completed": true})
}

func (es *eventService) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if _, oErr := es.ownedEvent(ctx, userID, eventID); oErr != nil {
		return oErr
	}
	if dErr := es.eventRepo.DeleteByID(ctx, nil, eventID); dErr != nil {
		return fmt.Errorf("failed to delete event: %w", dErr)
	}
	return nil
}

func (es *eventService) ownedEvent(ctx context.Context, userID, eventID uuid.UUID) (*types.Event, error) {
	event, err := es.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "event_not_found", errors.New("event not found"))
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("event belongs to another user"))
	}
	return event, nil
}
