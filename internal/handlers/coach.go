package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timewell/timewell-backend/internal/services"
)

type CoachHandler struct {
	coachService services.CoachService
}

func NewCoachHandler(coachService services.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type coachRequestOptions struct {
	Voice           string `json:"voice"`
	Model           string `json:"model"`
	DisableFallback bool   `json:"disable_fallback"`
}

func (o coachRequestOptions) toOptions() services.CoachOptions {
	return services.CoachOptions{
		Voice:           o.Voice,
		Model:           o.Model,
		DisableFallback: o.DisableFallback,
	}
}

func (ch *CoachHandler) Ask(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
		coachRequestOptions
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	result, err := ch.coachService.GetCoachingMessage(c.Request.Context(), req.Prompt, req.toOptions())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CoachHandler) WeeklyReview(c *gin.Context) {
	var req coachRequestOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
			return
		}
	}
	result, err := ch.coachService.WeeklyReview(c.Request.Context(), req.toOptions())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CoachHandler) ActionPlan(c *gin.Context) {
	var req coachRequestOptions
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
			return
		}
	}
	result, err := ch.coachService.ActionPlan(c.Request.Context(), req.toOptions())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CoachHandler) ListVoiceStyles(c *gin.Context) {
	RespondOK(c, gin.H{"voice_styles": ch.coachService.ListVoiceStyles(c.Request.Context())})
}
