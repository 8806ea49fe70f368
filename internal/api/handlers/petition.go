package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/generation"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PetitionHandler собирает ходатайства из размеченного текста
type PetitionHandler struct {
	service generation.Service
}

func NewPetitionHandler(service generation.Service) *PetitionHandler {
	return &PetitionHandler{service: service}
}

// Generate собирает DOCX ходатайства
func (h *PetitionHandler) Generate(c *gin.Context) {
	var req generation.PetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request format: %v", err)})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.service.GeneratePetition(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Failed to build petition", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type routeRequest struct {
	Message string `json:"message"`
}

// Route определяет назначение входящего сообщения
func (h *PetitionHandler) Route(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"intent": h.service.RouteMessage(req.Message)})
}
