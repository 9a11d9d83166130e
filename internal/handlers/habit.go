package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/timewell/timewell-backend/internal/services"
	"github.com/timewell/timewell-backend/internal/types"
)

type HabitHandler struct {
	habitService services.HabitService
}

func NewHabitHandler(habitService services.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

func (hh *HabitHandler) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Frequency   string `json:"frequency"`
		TargetDays  []int  `json:"target_days"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	habit := types.Habit{
		Title:       req.Title,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetDays:  datatypes.NewJSONSlice(req.TargetDays),
		Color:       req.Color,
		Icon:        req.Icon,
	}
	created, err := hh.habitService.CreateHabit(c.Request.Context(), &habit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (hh *HabitHandler) Get(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	habit, err := hh.habitService.GetHabit(c.Request.Context(), habitID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (hh *HabitHandler) List(c *gin.Context) {
	habits, err := hh.habitService.ListHabits(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"habits": habits})
}

func (hh *HabitHandler) Update(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	habit, err := hh.habitService.UpdateHabit(c.Request.Context(), habitID, updates)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (hh *HabitHandler) Complete(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	habit, err := hh.habitService.CompleteHabit(c.Request.Context(), habitID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (hh *HabitHandler) IncrementStreak(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	habit, err := hh.habitService.IncrementStreak(c.Request.Context(), habitID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (hh *HabitHandler) ResetStreak(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	habit, err := hh.habitService.ResetStreak(c.Request.Context(), habitID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (hh *HabitHandler) Delete(c *gin.Context) {
	habitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := hh.habitService.DeleteHabit(c.Request.Context(), habitID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "habit deleted"})
}
