package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/coach"
	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/platform/openai"
	"github.com/timewell/timewell-backend/internal/requestdata"
	"github.com/timewell/timewell-backend/internal/types"
)

// stubAI scripts the model client for a single test. jsonResult is the raw
// completion text, as the real client returns it.
type stubAI struct {
	textResult Completion
	textErr    error
	jsonResult string
	jsonErr    error

	lastSystem string
	lastUser   string
}

type Completion = openai.Completion

func (s *stubAI) GenerateText(ctx context.Context, system, user string) (openai.Completion, error) {
	s.lastSystem, s.lastUser = system, user
	if s.textErr != nil {
		return openai.Completion{}, s.textErr
	}
	return s.textResult, nil
}

func (s *stubAI) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (openai.StructuredCompletion, error) {
	s.lastSystem, s.lastUser = system, user
	if s.jsonErr != nil {
		return openai.StructuredCompletion{}, s.jsonErr
	}
	return openai.StructuredCompletion{Text: s.jsonResult, Model: "stub-model"}, nil
}

type memUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (m *memUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, tx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memUserRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	return nil
}

type memGoalRepo struct {
	goals []*types.Goal
}

func (m *memGoalRepo) Create(ctx context.Context, tx *gorm.DB, goal *types.Goal) (*types.Goal, error) {
	m.goals = append(m.goals, goal)
	return goal, nil
}

func (m *memGoalRepo) GetByID(ctx context.Context, tx *gorm.DB, goalID uuid.UUID) (*types.Goal, error) {
	for _, g := range m.goals {
		if g.ID == goalID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memGoalRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Goal, error) {
	var out []*types.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGoalRepo) GetActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Goal, error) {
	var out []*types.Goal
	for _, g := range m.goals {
		if g.UserID == userID && !g.IsCompleted {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGoalRepo) UpdateFields(ctx context.Context, tx *gorm.DB, goalID uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (m *memGoalRepo) DeleteByID(ctx context.Context, tx *gorm.DB, goalID uuid.UUID) error {
	return nil
}

type memEventRepo struct {
	events []*types.Event
}

func (m *memEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.Event) (*types.Event, error) {
	m.events = append(m.events, event)
	return event, nil
}

func (m *memEventRepo) GetByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*types.Event, error) {
	for _, e := range m.events {
		if e.ID == eventID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Event, error) {
	var out []*types.Event
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) GetByUserIDSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Event, error) {
	var out []*types.Event
	for _, e := range m.events {
		if e.UserID == userID && !e.StartTime.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) UpdateFields(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (m *memEventRepo) DeleteByID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	return nil
}

type memSuggestionRepo struct {
	created   []*types.Suggestion
	createErr error
}

func (m *memSuggestionRepo) Create(ctx context.Context, tx *gorm.DB, suggestion *types.Suggestion) (*types.Suggestion, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, suggestion)
	return suggestion, nil
}

func (m *memSuggestionRepo) GetByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) (*types.Suggestion, error) {
	for _, s := range m.created {
		if s.ID == suggestionID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memSuggestionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Suggestion, error) {
	return m.created, nil
}

func (m *memSuggestionRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]*types.Suggestion, error) {
	var out []*types.Suggestion
	for _, s := range m.created {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSuggestionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (m *memSuggestionRepo) DeleteByID(ctx context.Context, tx *gorm.DB, suggestionID uuid.UUID) error {
	return nil
}

type coachFixture struct {
	svc         CoachService
	ai          *stubAI
	suggestions *memSuggestionRepo
	events      *memEventRepo
	goals       *memGoalRepo
	userID      uuid.UUID
	eventID     uuid.UUID
	ctx         context.Context
}

func newCoachFixture(t *testing.T) *coachFixture {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)

	userID := uuid.New()
	eventID := uuid.New()

	users := &memUserRepo{users: map[uuid.UUID]*types.User{
		userID: {ID: userID, Email: "jordan@example.com", Username: "Jordan"},
	}}
	goals := &memGoalRepo{goals: []*types.Goal{
		{ID: uuid.New(), UserID: userID, Title: "Get fit", Description: "Run 3x a week"},
	}}
	events := &memEventRepo{events: []*types.Event{
		{ID: eventID, UserID: userID, Title: "Morning run", Description: "5k", StartTime: time.Now().UTC().Add(-time.Hour)},
	}}
	suggestions := &memSuggestionRepo{}
	ai := &stubAI{}

	svc := NewCoachService(log, ai, users, goals, events, suggestions)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return &coachFixture{
		svc:         svc,
		ai:          ai,
		suggestions: suggestions,
		events:      events,
		goals:       goals,
		userID:      userID,
		eventID:     eventID,
		ctx:         ctx,
	}
}

func TestGetCoachingMessageLive(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.textResult = openai.Completion{Text: "You've got this.", Model: "stub-model"}

	result, err := f.svc.GetCoachingMessage(f.ctx, "How do I stay focused?", CoachOptions{Voice: "motivator"})
	require.NoError(t, err)
	require.Equal(t, "You've got this.", result.Text)
	require.Equal(t, coach.VoiceMotivator, result.VoiceStyle)
	require.Equal(t, "stub-model", result.Model)
	require.False(t, result.Fallback)
}

func TestGetCoachingMessageFallsBack(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.textErr = openai.ErrUnavailable

	result, err := f.svc.GetCoachingMessage(f.ctx, "Can you analyze my day?", CoachOptions{})
	require.NoError(t, err)
	require.True(t, result.Fallback)
	require.Equal(t, coach.FallbackModel, result.Model)
	require.Equal(t, coach.DefaultVoice, result.VoiceStyle)
	require.NotEmpty(t, result.Text)
}

func TestGetCoachingMessageFallbackDisabled(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.textErr = openai.ErrUnavailable

	_, err := f.svc.GetCoachingMessage(f.ctx, "hello", CoachOptions{DisableFallback: true})
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, apierr.StatusOf(err, 0))
}

func TestGetCoachingMessageEmptyPrompt(t *testing.T) {
	f := newCoachFixture(t)
	_, err := f.svc.GetCoachingMessage(f.ctx, "   ", CoachOptions{})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err, 0))
}

func TestAnalyzeEventAlignmentLive(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonResult = `{
		"score": 9,
		"aligned_goals": ["Get fit"],
		"analysis": "Directly serves your fitness goal.",
		"suggestion": "Add a cooldown stretch.",
		"new_goal_suggestion": null
	}`

	result, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{})
	require.NoError(t, err)
	require.Equal(t, 9, result.Score)
	require.False(t, result.Fallback)
	require.Equal(t, "stub-model", result.Model)

	require.Len(t, f.suggestions.created, 1)
	record := f.suggestions.created[0]
	require.Equal(t, f.userID, record.UserID)
	require.Equal(t, f.eventID, record.EventID)
	require.Equal(t, 9, record.Score)
	require.Equal(t, "Add a cooldown stretch.", record.SuggestionText)
}

func TestAnalyzeEventAlignmentFallback(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonErr = openai.ErrUnavailable

	result, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{})
	require.NoError(t, err)
	require.True(t, result.Fallback)
	require.Equal(t, 5, result.Score)
	require.Empty(t, result.AlignedGoals)
	require.Equal(t, coach.FallbackModel, result.Model)
	require.Contains(t, result.Analysis, "Morning run")

	// The fallback outcome is persisted just like a live one.
	require.Len(t, f.suggestions.created, 1)
	require.Equal(t, 5, f.suggestions.created[0].Score)
}

func TestAnalyzeEventAlignmentInvalidOutputFallsBack(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonResult = `{"score": 42}`

	result, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{})
	require.NoError(t, err)
	require.True(t, result.Fallback)
	require.Equal(t, 5, result.Score)
}

func TestAnalyzeEventAlignmentRepairsNearJSON(t *testing.T) {
	f := newCoachFixture(t)
	// Fenced output with a trailing comma, as models produce when the
	// provider ignores strict schema mode. Still a live result.
	f.ai.jsonResult = "```json\n" + `{
		"score": 8,
		"aligned_goals": ["Get fit"],
		"analysis": "Solid effort.",
		"suggestion": "Keep the streak going.",
	}` + "\n```"

	result, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{})
	require.NoError(t, err)
	require.False(t, result.Fallback)
	require.Equal(t, 8, result.Score)
	require.Equal(t, "stub-model", result.Model)

	require.Len(t, f.suggestions.created, 1)
	require.Equal(t, 8, f.suggestions.created[0].Score)
}

func TestAnalyzeEventAlignmentFallbackDisabled(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonErr = openai.ErrUnavailable

	_, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{DisableFallback: true})
	require.Error(t, err)
	require.Equal(t, http.StatusBadGateway, apierr.StatusOf(err, 0))
	require.Empty(t, f.suggestions.created)
}

func TestAnalyzeEventAlignmentPersistFailureSwallowed(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonResult = `{"score": 7, "aligned_goals": [], "analysis": "ok", "suggestion": "ok", "new_goal_suggestion": null}`
	f.suggestions.createErr = errors.New("disk full")

	result, err := f.svc.AnalyzeEventAlignment(f.ctx, f.eventID, CoachOptions{})
	require.NoError(t, err)
	require.Equal(t, 7, result.Score)
}

func TestAnalyzeEventAlignmentOwnership(t *testing.T) {
	f := newCoachFixture(t)
	otherEvent := &types.Event{ID: uuid.New(), UserID: uuid.New(), Title: "Not yours", StartTime: time.Now()}
	f.events.events = append(f.events.events, otherEvent)

	_, err := f.svc.AnalyzeEventAlignment(f.ctx, otherEvent.ID, CoachOptions{})
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, apierr.StatusOf(err, 0))

	_, err = f.svc.AnalyzeEventAlignment(f.ctx, uuid.New(), CoachOptions{})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err, 0))
}

func TestWeeklyReviewDefaultsToWiseElder(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.textResult = openai.Completion{Text: "A good week.", Model: "stub-model"}

	result, err := f.svc.WeeklyReview(f.ctx, CoachOptions{})
	require.NoError(t, err)
	require.Equal(t, coach.VoiceWiseElder, result.VoiceStyle)
	require.Contains(t, f.ai.lastSystem, "Wise Elder")
	require.Contains(t, f.ai.lastUser, "Morning run")
}

func TestWeeklyReviewFallbackUsesName(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.textErr = openai.ErrUnavailable

	result, err := f.svc.WeeklyReview(f.ctx, CoachOptions{})
	require.NoError(t, err)
	require.True(t, result.Fallback)
	require.Contains(t, result.Text, "Jordan, ")
}

func TestActionPlanDefaultsToMotivator(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonResult = `{
		"actions": ["Run tomorrow"],
		"priorities": ["Health"],
		"insights": ["Mornings work best for you"]
	}`

	result, err := f.svc.ActionPlan(f.ctx, CoachOptions{})
	require.NoError(t, err)
	require.Equal(t, coach.VoiceMotivator, result.VoiceStyle)
	require.Equal(t, []string{"Run tomorrow"}, result.Actions)
	require.False(t, result.Fallback)
	require.Contains(t, f.ai.lastSystem, "Motivator")
}

func TestActionPlanFallback(t *testing.T) {
	f := newCoachFixture(t)
	f.ai.jsonErr = openai.ErrUnavailable

	result, err := f.svc.ActionPlan(f.ctx, CoachOptions{Voice: "oracle"})
	require.NoError(t, err)
	require.True(t, result.Fallback)
	require.Equal(t, coach.VoiceOracle, result.VoiceStyle)
	require.NotEmpty(t, result.Actions)
	require.NotEmpty(t, result.Priorities)
	require.NotEmpty(t, result.Insights)
}

func TestCoachZeroDataUser(t *testing.T) {
	f := newCoachFixture(t)
	f.goals.goals = nil
	f.events.events = nil
	f.ai.textResult = openai.Completion{Text: "Fresh start.", Model: "stub-model"}

	result, err := f.svc.WeeklyReview(f.ctx, CoachOptions{})
	require.NoError(t, err)
	require.Equal(t, "Fresh start.", result.Text)
	require.Contains(t, f.ai.lastUser, "No events recorded this week.")
	require.Contains(t, f.ai.lastUser, "No active goals.")
}

func TestCoachRequiresAuth(t *testing.T) {
	f := newCoachFixture(t)
	_, err := f.svc.ActionPlan(context.Background(), CoachOptions{})
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err, 0))
}
