package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/repos"
	"github.com/timewell/timewell-backend/internal/requestdata"
	"github.com/timewell/timewell-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	GetPreferences(ctx context.Context) (types.Preferences, error)
	UpdatePreferences(ctx context.Context, updates map[string]interface{}) (types.Preferences, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.New(http.StatusUnauthorized, "missing_auth", errors.New("no request data in context"))
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "user_not_found", errors.New("user not found"))
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (us *userService) GetPreferences(ctx context.Context) (types.Preferences, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return types.Preferences{}, err
	}
	return user.Preferences.Data(), nil
}

// UpdatePreferences merges the provided fields into the stored preferences,
// leaving unmentioned fields untouched.
func (us *userService) UpdatePreferences(ctx context.Context, updates map[string]interface{}) (types.Preferences, error) {
	user, err := us.GetMe(ctx)
	if err != nil {
		return types.Preferences{}, err
	}
	prefs := user.Preferences.Data()
	if raw, ok := updates["coach_voice"]; ok {
		voice, vErr := parseCoachVoice(raw)
		if vErr != nil {
			return types.Preferences{}, vErr
		}
		prefs.CoachVoice = voice
	}
	if raw, ok := updates["theme"]; ok {
		theme, tOk := raw.(string)
		if !tOk || strings.TrimSpace(theme) == "" {
			return types.Preferences{}, apierr.New(http.StatusBadRequest, "invalid_preferences", errors.New("theme must be a non-empty string"))
		}
		prefs.Theme = theme
	}
	if raw, ok := updates["notifications_enabled"]; ok {
		enabled, bOk := raw.(bool)
		if !bOk {
			return types.Preferences{}, apierr.New(http.StatusBadRequest, "invalid_preferences", errors.New("notifications_enabled must be a boolean"))
		}
		prefs.NotificationsEnabled = enabled
	}
	if raw, ok := updates["daily_reminder_time"]; ok {
		t, tOk := raw.(string)
		if !tOk || !validReminderTime(t) {
			return types.Preferences{}, apierr.New(http.StatusBadRequest, "invalid_preferences", errors.New("daily_reminder_time must be HH:MM"))
		}
		prefs.DailyReminderTime = t
	}
	if raw, ok := updates["weekly_summary_day"]; ok {
		day, dErr := intFromJSON(raw)
		if dErr != nil || day < 0 || day > 6 {
			return types.Preferences{}, apierr.New(http.StatusBadRequest, "invalid_preferences", errors.New("weekly_summary_day must be 0 through 6"))
		}
		prefs.WeeklySummaryDay = day
	}
	if uErr := us.userRepo.UpdateFields(ctx, nil, user.ID, map[string]interface{}{
		"preferences": datatypes.NewJSONType(prefs),
	}); uErr != nil {
		return types.Preferences{}, fmt.Errorf("failed to update preferences: %w", uErr)
	}
	return prefs, nil
}

func parseCoachVoice(raw interface{}) (types.CoachVoicePreference, error) {
	s, ok := raw.(string)
	if !ok {
		return "", apierr.New(http.StatusBadRequest, "invalid_preferences", errors.New("coach_voice must be a string"))
	}
	switch v := types.CoachVoicePreference(s); v {
	case types.CoachVoiceMotivational, types.CoachVoiceSupportive, types.CoachVoiceDirect,
		types.CoachVoiceAnalytical, types.CoachVoiceFriendly:
		return v, nil
	}
	return "", apierr.New(http.StatusBadRequest, "invalid_preferences", fmt.Errorf("unknown coach_voice %q", s))
}

func validReminderTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := s[:2]
	mm := s[3:]
	for _, c := range hh + mm {
		if c < '0' || c > '9' {
			return false
		}
	}
	h := int(hh[0]-'0')*10 + int(hh[1]-'0')
	m := int(mm[0]-'0')*10 + int(mm[1]-'0')
	return h < 24 && m < 60
}

func intFromJSON(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.New("not an integer")
		}
		return int(v), nil
	}
	return 0, errors.New("not an integer")
}
