package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Yasin777-6/Avourist-v1/internal/domain/contract"
	"github.com/Yasin777-6/Avourist-v1/internal/domain/generation"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/circuitbreaker"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractHandler обрабатывает запросы жизненного цикла договора
type ContractHandler struct {
	service generation.Service
}

func NewContractHandler(service generation.Service) *ContractHandler {
	return &ContractHandler{service: service}
}

// Generate запускает полный конвейер генерации договора
func (h *ContractHandler) Generate(c *gin.Context) {
	var req generation.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to parse request",
			zap.Error(err),
			zap.String("content_type", c.GetHeader("Content-Type")),
		)
		c.Header("Content-Type", "application/json; charset=utf-8")
		if err.Error() == "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
			return
		}
		if strings.Contains(err.Error(), "invalid character") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON format"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request format: %v", err)})
		return
	}

	if err := h.validateGenerateRequest(&req); err != nil {
		logger.Error("Request validation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("validation error: %v", err)})
		return
	}

	result, err := h.service.GenerateContract(c.Request.Context(), &req)
	if err != nil {
		status := h.determineErrorStatus(err)
		logger.Error("Failed to generate contract",
			zap.Int64("telegram_id", req.TelegramID),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type verifyRequest struct {
	Code string `json:"code"`
}

// Verify проверяет код подтверждения и подписывает договор
func (h *ContractHandler) Verify(c *gin.Context) {
	number := c.Param("number")

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}
	if req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	if err := h.service.VerifyCode(c.Request.Context(), number, req.Code); err != nil {
		status := h.determineErrorStatus(err)
		logger.Error("Code verification failed",
			zap.String("contract_number", number),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_number": number,
		"status":          contract.StatusSigned,
	})
}

// ResendCode выдает новый код подтверждения, старый перестает действовать
func (h *ContractHandler) ResendCode(c *gin.Context) {
	number := c.Param("number")

	if _, err := h.service.ResendCode(c.Request.Context(), number); err != nil {
		status := h.determineErrorStatus(err)
		logger.Error("Code reissue failed",
			zap.String("contract_number", number),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_number": number,
		"status":          contract.StatusCodeSent,
	})
}

func (h *ContractHandler) validateGenerateRequest(req *generation.GenerateRequest) error {
	var errs []string

	if req.TelegramID == 0 {
		errs = append(errs, "telegram_id is required")
	}
	if strings.TrimSpace(req.Input) == "" {
		errs = append(errs, "input is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (h *ContractHandler) determineErrorStatus(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, contract.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrContractNotFound):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, contract.ErrCodeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, contract.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrConversionUnavailable),
		errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ConverterState возвращает состояние Circuit Breaker внешнего конвертера PDF
func (h *ContractHandler) ConverterState() circuitbreaker.State {
	return h.service.ConverterState()
}

// IsConverterHealthy возвращает true, если внешний конвертер PDF доступен
func (h *ContractHandler) IsConverterHealthy() bool {
	return h.service.IsConverterHealthy()
}
