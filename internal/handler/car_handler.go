package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/drive-share/service-rental/internal/application"
	"github.com/drive-share/service-rental/internal/domain/car"
	"github.com/drive-share/service-rental/pkg/authx"
	"github.com/drive-share/service-rental/pkg/middleware"
	"github.com/drive-share/service-rental/pkg/response"
)

// CarHandler handles HTTP requests for car listings.
type CarHandler struct {
	service *application.CatalogService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CatalogService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers all car routes on the given router group.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *authx.JWTManager) {
	authMW := middleware.Auth(jwtManager)

	cars := r.Group("/api/v1/cars")
	{
		cars.GET("", h.SearchCars)
		cars.GET("/:id", h.GetCar)
	}

	owned := r.Group("/api/v1/cars")
	owned.Use(authMW)
	{
		owned.POST("", middleware.RequireCarOwner(), h.CreateCar)
		owned.GET("/mine", middleware.RequireCarOwner(), h.ListMyCars)
		owned.PUT("/:id", middleware.RequireCarOwner(), h.UpdateCar)
		owned.PUT("/:id/availability", middleware.RequireCarOwner(), h.SetAvailability)
		owned.PUT("/:id/windows", middleware.RequireCarOwner(), h.SetWindows)
	}
}

// CreateCar handles POST /api/v1/cars.
func (h *CarHandler) CreateCar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SearchCars handles GET /api/v1/cars with filter query parameters.
func (h *CarHandler) SearchCars(c *gin.Context) {
	filters, err := parseSearchFilters(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetCar handles GET /api/v1/cars/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ListMyCars handles GET /api/v1/cars/mine.
func (h *CarHandler) ListMyCars(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateCar handles PUT /api/v1/cars/:id.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req application.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), userID, carID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetAvailability handles PUT /api/v1/cars/:id/availability.
func (h *CarHandler) SetAvailability(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetAvailable(c.Request.Context(), userID, carID, *req.Available); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"available": *req.Available})
}

// SetWindows handles PUT /api/v1/cars/:id/windows.
func (h *CarHandler) SetWindows(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req struct {
		Windows []application.DateRangeDTO `json:"windows"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.SetAvailabilityWindows(c.Request.Context(), userID, carID, req.Windows); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"windows": len(req.Windows)})
}

func parseSearchFilters(c *gin.Context) (car.SearchFilters, error) {
	var filters car.SearchFilters
	filters.Location = c.Query("location")
	filters.CarType = c.Query("type")

	if v := c.Query("seats"); v != "" {
		seats, err := strconv.Atoi(v)
		if err != nil {
			return filters, err
		}
		filters.Seats = seats
	}
	if v := c.Query("price_min_cents"); v != "" {
		min, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.PriceMinCents = min
	}
	if v := c.Query("price_max_cents"); v != "" {
		max, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.PriceMaxCents = max
	}
	if v := c.Query("features"); v != "" {
		filters.Features = strings.Split(v, ",")
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr != "" && endStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return filters, err
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return filters, err
		}
		rng, err := car.NewDateRange(start, end)
		if err != nil {
			return filters, err
		}
		filters.DateRange = &rng
	}

	return filters, nil
}
