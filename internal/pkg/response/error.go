package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/apperror"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/logger"
	"go.uber.org/zap"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it logs the error and responds with 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Code: appErr.Reason})
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"})
}

// Validation sends a 422 response for a request that failed binding or validation.
func Validation(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		Error(c, err)
		return
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "invalid request",
		Code:    "validation_error",
		Details: err.Error(),
	})
}
