package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/timewell/timewell-backend/internal/coach"
	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/platform/apierr"
	"github.com/timewell/timewell-backend/internal/platform/openai"
	"github.com/timewell/timewell-backend/internal/repos"
	"github.com/timewell/timewell-backend/internal/types"
)

const weeklyReviewWindow = 7 * 24 * time.Hour

// CoachOptions shapes a single coaching call. Zero values mean: task-default
// voice, configured default model, fallback enabled.
type CoachOptions struct {
	Voice           string
	Model           string
	DisableFallback bool
}

type CoachService interface {
	GetCoachingMessage(ctx context.Context, prompt string, opts CoachOptions) (coach.MessageResult, error)
	AnalyzeEventAlignment(ctx context.Context, eventID uuid.UUID, opts CoachOptions) (coach.AnalysisResult, error)
	WeeklyReview(ctx context.Context, opts CoachOptions) (coach.MessageResult, error)
	ActionPlan(ctx context.Context, opts CoachOptions) (coach.ActionPlanResult, error)
	ListVoiceStyles(ctx context.Context) []coach.VoiceStyle
}

type coachService struct {
	log            *logger.Logger
	ai             openai.Client
	catalog        *coach.Catalog
	fallback       *coach.FallbackGenerator
	userRepo       repos.UserRepo
	goalRepo       repos.GoalRepo
	eventRepo      repos.EventRepo
	suggestionRepo repos.SuggestionRepo
}

func NewCoachService(
	log *logger.Logger,
	ai openai.Client,
	userRepo repos.UserRepo,
	goalRepo repos.GoalRepo,
	eventRepo repos.EventRepo,
	suggestionRepo repos.SuggestionRepo,
) CoachService {
	serviceLog := log.With("service", "CoachService")
	return &coachService{
		log:            serviceLog,
		ai:             ai,
		catalog:        coach.NewCatalog(),
		fallback:       coach.NewFallbackGenerator(),
		userRepo:       userRepo,
		goalRepo:       goalRepo,
		eventRepo:      eventRepo,
		suggestionRepo: suggestionRepo,
	}
}

func (cs *coachService) ListVoiceStyles(ctx context.Context) []coach.VoiceStyle {
	return cs.catalog.ListVoiceStyles()
}

// GetCoachingMessage answers a free-text question in the requested voice. On
// model failure it degrades to a canned message matched to the prompt's topic
// unless fallback is disabled.
func (cs *coachService) GetCoachingMessage(ctx context.Context, prompt string, opts CoachOptions) (coach.MessageResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return coach.MessageResult{}, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("prompt is required"))
	}
	style := cs.resolveVoice(opts.Voice, coach.DefaultVoice)
	system := cs.catalog.RenderSystemPrompt(style, "")
	completion, err := cs.client(opts).GenerateText(ctx, system, prompt)
	if err != nil {
		cs.log.Warn("coaching message generation failed", "voice", string(style), "error", err)
		if opts.DisableFallback {
			return coach.MessageResult{}, cs.upstreamError(err)
		}
		return cs.fallback.CoachingMessage(style, prompt), nil
	}
	return coach.MessageResult{
		Text:       completion.Text,
		VoiceStyle: style,
		Model:      completion.Model,
		TokenUsage: totalTokens(completion.Usage),
	}, nil
}

// AnalyzeEventAlignment scores an event against the user's active goals and
// persists the outcome as a suggestion record. Both the live and fallback
// paths persist; a failed write is logged and never surfaced to the caller.
func (cs *coachService) AnalyzeEventAlignment(ctx context.Context, eventID uuid.UUID, opts CoachOptions) (coach.AnalysisResult, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return coach.AnalysisResult{}, err
	}
	event, eErr := cs.eventRepo.GetByID(ctx, nil, eventID)
	if eErr != nil {
		if errors.Is(eErr, gorm.ErrRecordNotFound) {
			return coach.AnalysisResult{}, apierr.New(http.StatusNotFound, "event_not_found", errors.New("event not found"))
		}
		return coach.AnalysisResult{}, fmt.Errorf("failed to load event: %w", eErr)
	}
	if event.UserID != userID {
		return coach.AnalysisResult{}, apierr.New(http.StatusForbidden, "forbidden", errors.New("event belongs to another user"))
	}
	goals, gErr := cs.goalRepo.GetActiveByUserID(ctx, nil, userID)
	if gErr != nil {
		return coach.AnalysisResult{}, fmt.Errorf("failed to load active goals: %w", gErr)
	}

	style := cs.resolveVoice(opts.Voice, coach.DefaultVoice)
	schema := coach.AlignmentSchema()
	system := cs.catalog.RenderSystemPrompt(style, coach.FormatInstructions(schema))
	userPrompt := coach.AlignmentUserPrompt(eventContextOf(event), goalContextsOf(goals))

	var result coach.AnalysisResult
	structured, aiErr := cs.client(opts).GenerateJSON(ctx, system, userPrompt, "event_alignment", schema)
	if aiErr == nil {
		alignment, pErr := coach.ParseAlignmentText(structured.Text)
		if pErr != nil {
			aiErr = fmt.Errorf("%w: %w", openai.ErrInvalidOutput, pErr)
		} else {
			result = coach.AnalysisResult{
				Alignment:  alignment,
				VoiceStyle: style,
				Model:      structured.Model,
				TokenUsage: totalTokens(structured.Usage),
			}
		}
	}
	if aiErr != nil {
		cs.log.Warn("alignment analysis failed", "event_id", eventID.String(), "voice", string(style), "error", aiErr)
		if opts.DisableFallback {
			return coach.AnalysisResult{}, cs.upstreamError(aiErr)
		}
		result = cs.fallback.Analysis(style, event.Title)
	}

	cs.persistSuggestion(ctx, userID, eventID, result)
	return result, nil
}

// WeeklyReview summarizes the past seven days of events against active goals.
// The wise elder carries this task unless the caller picks another voice.
func (cs *coachService) WeeklyReview(ctx context.Context, opts CoachOptions) (coach.MessageResult, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return coach.MessageResult{}, err
	}
	user, uErr := cs.userRepo.GetByID(ctx, nil, userID)
	if uErr != nil {
		return coach.MessageResult{}, fmt.Errorf("failed to load user: %w", uErr)
	}
	since := time.Now().UTC().Add(-weeklyReviewWindow)
	events, evErr := cs.eventRepo.GetByUserIDSince(ctx, nil, userID, since)
	if evErr != nil {
		return coach.MessageResult{}, fmt.Errorf("failed to load weekly events: %w", evErr)
	}
	goals, gErr := cs.goalRepo.GetActiveByUserID(ctx, nil, userID)
	if gErr != nil {
		return coach.MessageResult{}, fmt.Errorf("failed to load active goals: %w", gErr)
	}

	style := cs.resolveVoice(opts.Voice, coach.VoiceWiseElder)
	system := cs.catalog.RenderSystemPrompt(style, "")
	userPrompt := coach.WeeklyReviewUserPrompt(eventContextsOf(events), goalContextsOf(goals))
	completion, aiErr := cs.client(opts).GenerateText(ctx, system, userPrompt)
	if aiErr != nil {
		cs.log.Warn("weekly review generation failed", "user_id", userID.String(), "voice", string(style), "error", aiErr)
		if opts.DisableFallback {
			return coach.MessageResult{}, cs.upstreamError(aiErr)
		}
		return cs.fallback.WeeklyReview(style, user.Username), nil
	}
	return coach.MessageResult{
		Text:       completion.Text,
		VoiceStyle: style,
		Model:      completion.Model,
		TokenUsage: totalTokens(completion.Usage),
	}, nil
}

// ActionPlan produces a structured plan from recent activity and active
// goals. The motivator carries this task by default.
func (cs *coachService) ActionPlan(ctx context.Context, opts CoachOptions) (coach.ActionPlanResult, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return coach.ActionPlanResult{}, err
	}
	since := time.Now().UTC().Add(-weeklyReviewWindow)
	events, evErr := cs.eventRepo.GetByUserIDSince(ctx, nil, userID, since)
	if evErr != nil {
		return coach.ActionPlanResult{}, fmt.Errorf("failed to load recent events: %w", evErr)
	}
	goals, gErr := cs.goalRepo.GetActiveByUserID(ctx, nil, userID)
	if gErr != nil {
		return coach.ActionPlanResult{}, fmt.Errorf("failed to load active goals: %w", gErr)
	}

	style := cs.resolveVoice(opts.Voice, coach.VoiceMotivator)
	schema := coach.ActionPlanSchema()
	system := cs.catalog.RenderSystemPrompt(style, coach.FormatInstructions(schema))
	userPrompt := coach.ActionPlanUserPrompt(eventContextsOf(events), goalContextsOf(goals))

	structured, aiErr := cs.client(opts).GenerateJSON(ctx, system, userPrompt, "action_plan", schema)
	if aiErr == nil {
		plan, pErr := coach.ParseActionPlanText(structured.Text)
		if pErr == nil {
			return coach.ActionPlanResult{
				ActionPlan: plan,
				VoiceStyle: style,
				Model:      structured.Model,
				TokenUsage: totalTokens(structured.Usage),
			}, nil
		}
		aiErr = fmt.Errorf("%w: %w", openai.ErrInvalidOutput, pErr)
	}
	cs.log.Warn("action plan generation failed", "user_id", userID.String(), "voice", string(style), "error", aiErr)
	if opts.DisableFallback {
		return coach.ActionPlanResult{}, cs.upstreamError(aiErr)
	}
	return cs.fallback.PlanOfAction(style), nil
}

func (cs *coachService) resolveVoice(requested string, taskDefault coach.VoiceStyle) coach.VoiceStyle {
	if strings.TrimSpace(requested) == "" {
		return taskDefault
	}
	return coach.ParseVoiceStyle(requested)
}

func (cs *coachService) client(opts CoachOptions) openai.Client {
	if opts.Model != "" {
		return openai.WithModel(cs.ai, opts.Model)
	}
	return cs.ai
}

func (cs *coachService) upstreamError(err error) error {
	if errors.Is(err, openai.ErrInvalidOutput) || errors.Is(err, coach.ErrParse) {
		return apierr.New(http.StatusBadGateway, "coach_invalid_output", err)
	}
	return apierr.New(http.StatusBadGateway, "coach_unavailable", err)
}

// persistSuggestion writes the analysis outcome. Persistence is best-effort:
// the analysis already succeeded from the caller's point of view, so a failed
// write is logged and swallowed.
func (cs *coachService) persistSuggestion(ctx context.Context, userID, eventID uuid.UUID, result coach.AnalysisResult) {
	record := &types.Suggestion{
		ID:                uuid.New(),
		UserID:            userID,
		EventID:           eventID,
		Score:             result.Score,
		AlignedGoals:      datatypes.NewJSONSlice(result.AlignedGoals),
		Analysis:          result.Analysis,
		SuggestionText:    result.Suggestion,
		NewGoalSuggestion: result.NewGoalSuggestion,
		IsApplied:         false,
	}
	if _, err := cs.suggestionRepo.Create(ctx, nil, record); err != nil {
		cs.log.Error("failed to persist suggestion record",
			"user_id", userID.String(),
			"event_id", eventID.String(),
			"error", err,
		)
	}
}

func eventContextOf(event *types.Event) coach.EventContext {
	return coach.EventContext{
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		IsCompleted: event.IsCompleted,
	}
}

func eventContextsOf(events []*types.Event) []coach.EventContext {
	out := make([]coach.EventContext, 0, len(events))
	for _, e := range events {
		out = append(out, eventContextOf(e))
	}
	return out
}

func goalContextsOf(goals []*types.Goal) []coach.GoalContext {
	out := make([]coach.GoalContext, 0, len(goals))
	for _, g := range goals {
		target := ""
		if g.TargetDate != nil {
			target = g.TargetDate.UTC().Format(time.RFC3339)
		}
		out = append(out, coach.GoalContext{
			ID:          g.ID.String(),
			Title:       g.Title,
			Description: g.Description,
			TargetDate:  target,
			IsCompleted: g.IsCompleted,
		})
	}
	return out
}

func totalTokens(usage openai.TokenUsage) *int {
	if usage.TotalTokens == 0 {
		return nil
	}
	total := usage.TotalTokens
	return &total
}
