package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/application"
	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/middleware"
	"github.com/drive-share/service-rental/pkg/response"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers all review routes on the given router group.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *authx.JWTManager) {
	reviews := r.Group("/api/v1/reviews")
	{
		reviews.GET("/target/:id", h.ListByTarget)
	}

	authd := r.Group("/api/v1/reviews")
	authd.Use(middleware.Auth(jwtManager))
	{
		authd.POST("", h.AddReview)
	}
}

// AddReview handles POST /api/v1/reviews.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddReview(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListByTarget handles GET /api/v1/reviews/target/:id.
func (h *ReviewHandler) ListByTarget(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid target ID")
		return
	}

	result, err := h.service.ListByTarget(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
