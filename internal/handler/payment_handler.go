package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/application"
	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/middleware"
	"github.com/drive-share/service-rental/pkg/response"
)

// PaymentHandler handles HTTP requests for balances and payments.
type PaymentHandler struct {
	service *application.LedgerService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.LedgerService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers all payment routes on the given router group.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *authx.JWTManager) {
	payments := r.Group("/api/v1/payments")
	payments.Use(middleware.Auth(jwtManager))
	{
		payments.POST("", h.ProcessPayment)
		payments.GET("/balance", h.GetBalance)
		payments.GET("/history", h.GetHistory)
	}
}

// ProcessPaymentRequest is the JSON body for POST /api/v1/payments.
type ProcessPaymentRequest struct {
	BookingID   uuid.UUID `json:"booking_id" binding:"required"`
	ToUserID    uuid.UUID `json:"to_user_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required"`
}

// ProcessPayment handles POST /api/v1/payments. The authenticated user is
// always the payer.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ProcessPayment(c.Request.Context(), req.BookingID, userID, req.ToUserID, req.AmountCents)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GetBalance handles GET /api/v1/payments/balance.
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"balance_cents": balance})
}

// GetHistory handles GET /api/v1/payments/history.
func (h *PaymentHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetTransactionHistory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
