package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timewell/timewell-backend/internal/services"
	"github.com/timewell/timewell-backend/internal/types"
)

type EventHandler struct {
	eventService services.EventService
	coachService services.CoachService
}

func NewEventHandler(eventService services.EventService, coachService services.CoachService) *EventHandler {
	return &EventHandler{eventService: eventService, coachService: coachService}
}

func (eh *EventHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		GoalID      *uuid.UUID `json:"goal_id"`
		StartTime   time.Time  `json:"start_time"`
		EndTime     *time.Time `json:"end_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	event := types.Event{
		Title:       req.Title,
		Description: req.Description,
		GoalID:      req.GoalID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	created, err := eh.eventService.CreateEvent(c.Request.Context(), &event)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (eh *EventHandler) Get(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	event, err := eh.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) List(c *gin.Context) {
	events, err := eh.eventService.ListEvents(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"events": events})
}

func (eh *EventHandler) Update(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	event, err := eh.eventService.UpdateEvent(c.Request.Context(), eventID, updates)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Complete(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	event, err := eh.eventService.CompleteEvent(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, event)
}

func (eh *EventHandler) Delete(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := eh.eventService.DeleteEvent(c.Request.Context(), eventID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "event deleted"})
}

// Analyze runs a goal-alignment analysis for one event and returns the
// coaching result. The suggestion record is persisted by the service.
func (eh *EventHandler) Analyze(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Voice           string `json:"voice"`
		Model           string `json:"model"`
		DisableFallback bool   `json:"disable_fallback"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
			return
		}
	}
	result, err := eh.coachService.AnalyzeEventAlignment(c.Request.Context(), eventID, services.CoachOptions{
		Voice:           req.Voice,
		Model:           req.Model,
		DisableFallback: req.DisableFallback,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
