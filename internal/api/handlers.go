package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/api/handlers"
	"github.com/Yasin777-6/Avourist-v1/internal/domain/generation"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers содержит все обработчики API
type Handlers struct {
	Contract *handlers.ContractHandler
	Petition *handlers.PetitionHandler
}

// NewHandlers создает новые обработчики
func NewHandlers(service generation.Service) *Handlers {
	return &Handlers{
		Contract: handlers.NewContractHandler(service),
		Petition: handlers.NewPetitionHandler(service),
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	converterState := h.Contract.ConverterState()
	isHealthy := h.Contract.IsConverterHealthy()

	status := "healthy"
	if !isHealthy {
		status = "unhealthy"
	}

	response := gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"details": gin.H{
			"circuit_breakers": gin.H{
				"gotenberg": gin.H{
					"status": isHealthy,
					"state":  converterState.String(),
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if !isHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("Failed to encode health response", zap.Error(err))
	}
}
