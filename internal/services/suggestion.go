package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/repos"
	"github.com/timewell/timewell-backend/internal/types"
)

type SuggestionService interface {
	ListSuggestions(ctx context.Context, limit, offset int) ([]*types.Suggestion, error)
	ListSuggestionsForEvent(ctx context.Context, eventID uuid.UUID) ([]*types.Suggestion, error)
	GetSuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error)
	ApplySuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error)
	UnapplySuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error)
	DeleteSuggestion(ctx context.Context, suggestionID uuid.UUID) error
}

type suggestionService struct {
	db             *gorm.DB
	log            *logger.Logger
	suggestionRepo repos.SuggestionRepo
	eventRepo      repos.EventRepo
}

func NewSuggestionService(
	db *gorm.DB,
	log *logger.Logger,
	suggestionRepo repos.SuggestionRepo,
	eventRepo repos.EventRepo,
) SuggestionService {
	serviceLog := log.With("service", "SuggestionService")
	return &suggestionService{
		db:             db,
		log:            serviceLog,
		suggestionRepo: suggestionRepo,
		eventRepo:      eventRepo,
	}
}

func (ss *suggestionService) ListSuggestions(ctx context.Context, limit, offset int) ([]*types.Suggestion, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	results, lErr := ss.suggestionRepo.GetByUserID(ctx, nil, userID, limit, offset)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", lErr)
	}
	return results, nil
}

func (ss *suggestionService) ListSuggestionsForEvent(ctx context.Context, eventID uuid.UUID) ([]*types.Suggestion, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	event, eErr := ss.eventRepo.GetByID(ctx, nil, eventID)
	if eErr != nil {
		if errors.Is(eErr, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "event_not_found", errors.New("event not found"))
		}
		return nil, fmt.Errorf("failed to load event: %w", eErr)
	}
	if event.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("event belongs to another user"))
	}
	results, lErr := ss.suggestionRepo.GetByEventID(ctx, nil, eventID)
	if lErr != nil {
		return nil, fmt.Errorf("failed to list suggestions for event: %w", lErr)
	}
	return results, nil
}

func (ss *suggestionService) GetSuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return ss.ownedSuggestion(ctx, userID, suggestionID)
}

func (ss *suggestionService) ApplySuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error) {
	return ss.setApplied(ctx, suggestionID, true)
}

func (ss *suggestionService) UnapplySuggestion(ctx context.Context, suggestionID uuid.UUID) (*types.Suggestion, error) {
	return ss.setApplied(ctx, suggestionID, false)
}

func (ss *suggestionService) DeleteSuggestion(ctx context.Context, suggestionID uuid.UUID) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if _, oErr := ss.ownedSuggestion(ctx, userID, suggestionID); oErr != nil {
		return oErr
	}
	if dErr := ss.suggestionRepo.DeleteByID(ctx, nil, suggestionID); dErr != nil {
		return fmt.Errorf("failed to delete suggestion: %w", dErr)
	}
	return nil
}

func (ss *suggestionService) setApplied(ctx context.Context, suggestionID uuid.UUID, applied bool) (*types.Suggestion, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if _, oErr := ss.ownedSuggestion(ctx, userID, suggestionID); oErr != nil {
		return nil, oErr
	}
	if uErr := ss.suggestionRepo.UpdateFields(ctx, nil, suggestionID, map[string]interface{}{
		"is_applied": applied,
	}); uErr != nil {
		return nil, fmt.Errorf("failed to set suggestion applied state: %w", uErr)
	}
	return ss.suggestionRepo.GetByID(ctx, nil, suggestionID)
}

func (ss *suggestionService) ownedSuggestion(ctx context.Context, userID, suggestionID uuid.UUID) (*types.Suggestion, error) {
	suggestion, err := ss.suggestionRepo.GetByID(ctx, nil, suggestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "suggestion_not_found", errors.New("suggestion not found"))
		}
		return nil, fmt.Errorf("failed to load suggestion: %w", err)
	}
	if suggestion.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", errors.New("suggestion belongs to another user"))
	}
	return suggestion, nil
}
