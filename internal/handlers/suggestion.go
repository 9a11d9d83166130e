package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/timewell/timewell-backend/internal/services"
)

type SuggestionHandler struct {
	suggestionService services.SuggestionService
}

func NewSuggestionHandler(suggestionService services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

func (sh *SuggestionHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)
	suggestions, err := sh.suggestionService.ListSuggestions(c.Request.Context(), limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suggestions": suggestions})
}

func (sh *SuggestionHandler) ListForEvent(c *gin.Context) {
	eventID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	suggestions, err := sh.suggestionService.ListSuggestionsForEvent(c.Request.Context(), eventID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"suggestions": suggestions})
}

func (sh *SuggestionHandler) Get(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	suggestion, err := sh.suggestionService.GetSuggestion(c.Request.Context(), suggestionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, suggestion)
}

func (sh *SuggestionHandler) Apply(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	suggestion, err := sh.suggestionService.ApplySuggestion(c.Request.Context(), suggestionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, suggestion)
}

func (sh *SuggestionHandler) Unapply(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	suggestion, err := sh.suggestionService.UnapplySuggestion(c.Request.Context(), suggestionID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, suggestion)
}

func (sh *SuggestionHandler) Delete(c *gin.Context) {
	suggestionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := sh.suggestionService.DeleteSuggestion(c.Request.Context(), suggestionID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "suggestion deleted"})
}
