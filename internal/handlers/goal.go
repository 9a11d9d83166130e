package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timewell/timewell-backend/internal/services"
	"github.com/timewell/timewell-backend/internal/types"
)

type GoalHandler struct {
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (gh *GoalHandler) Create(c *gin.Context) {
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		TargetDate  *time.Time `json:"target_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	goal := types.Goal{
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
	}
	created, err := gh.goalService.CreateGoal(c.Request.Context(), &goal)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (gh *GoalHandler) Get(c *gin.Context) {
	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	goal, err := gh.goalService.GetGoal(c.Request.Context(), goalID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, goal)
}

func (gh *GoalHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)
	goals, err := gh.goalService.ListGoals(c.Request.Context(), limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"goals": goals})
}

func (gh *GoalHandler) ListActive(c *gin.Context) {
	goals, err := gh.goalService.ListActiveGoals(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"goals": goals})
}

func (gh *GoalHandler) Update(c *gin.Context) {
	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	goal, err := gh.goalService.UpdateGoal(c.Request.Context(), goalID, updates)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, goal)
}

func (gh *GoalHandler) Complete(c *gin.Context) {
	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	goal, err := gh.goalService.CompleteGoal(c.Request.Context(), goalID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, goal)
}

func (gh *GoalHandler) Delete(c *gin.Context) {
	goalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := gh.goalService.DeleteGoal(c.Request.Context(), goalID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "goal deleted"})
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid id in path"))
		return uuid.Nil, false
	}
	return id, true
}

func paginationParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
