package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drive-share/service-rental/pkg/domain"
)

// envelope is the uniform response body shape.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[domain.Code]int{
	domain.CodeNotFound:          http.StatusNotFound,
	domain.CodeValidation:        http.StatusBadRequest,
	domain.CodeUnavailable:       http.StatusConflict,
	domain.CodeInsufficientFunds: http.StatusUnprocessableEntity,
	domain.CodeDuplicateReview:   http.StatusConflict,
	domain.CodeInvalidState:      http.StatusUnprocessableEntity,
	domain.CodeForbidden:         http.StatusForbidden,
	domain.CodeConflict:          http.StatusConflict,
	domain.CodeInconsistentState: http.StatusInternalServerError,
}

// OK writes a 200 with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// BadRequest writes a 400 with a validation error body.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.CodeValidation), Message: msg},
	})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, envelope{
		Success: false,
		Error:   &errorBody{Code: "UNAUTHORIZED", Message: msg},
	})
}

// Error maps a service error to an HTTP response. Domain errors keep their
// code and message; anything else becomes an opaque 500.
func Error(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, envelope{
			Success: false,
			Error:   &errorBody{Code: string(de.Code), Message: de.Message},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, envelope{
		Success: false,
		Error:   &errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
	})
}
