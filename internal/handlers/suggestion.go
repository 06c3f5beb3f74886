package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/farm-management-api/internal/services"
	"go.uber.org/zap"
)

type SuggestionHandler struct {
	suggestionService *services.SuggestionService
	logger            *zap.Logger
}

func NewSuggestionHandler(suggestionService *services.SuggestionService, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
		logger:            logger.Named("suggestions"),
	}
}

// SuggestTasks proposes tasks from free-text field notes. Nothing is stored.
func (h *SuggestionHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Notes string `json:"notes" binding:"required,nonblank,max=10000"`
	}

	if !h.suggestionService.Enabled() {
		respondError(c, h.logger, services.ErrSuggestionsNotConfigured)
		return
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tasks, err := h.suggestionService.Suggest(c.Request.Context(), req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
