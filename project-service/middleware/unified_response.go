package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"projecthub-backend/shared/utils/apperror"
)

// UnifiedResponse represents the standard API response format
type UnifiedResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

func newMeta(c *gin.Context) *MetaInfo {
	return &MetaInfo{
		RequestID: RequestIDFrom(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RespondOK writes a success envelope. An empty message is derived from the method.
func RespondOK(c *gin.Context, status int, message string, data interface{}) {
	if message == "" {
		message = getAutoMessage(c.Request.Method)
	}
	c.JSON(status, UnifiedResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    newMeta(c),
	})
}

// RespondError renders err as an error envelope. Errors without an API code are
// logged and hidden behind a generic internal error.
func RespondError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal(err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		LoggerFrom(c).ErrorContext(c.Request.Context(), "Request failed",
			"code", string(appErr.Code), "error", err)
	}

	c.JSON(appErr.Status, UnifiedResponse{
		Success: false,
		Message: getErrorMessage(appErr.Status),
		Error: &ErrorInfo{
			Code:    string(appErr.Code),
			Details: appErr.Message,
		},
		Meta: newMeta(c),
	})
}

// AbortWithError renders err and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	RespondError(c, err)
	c.Abort()
}

// getAutoMessage generates appropriate success messages
func getAutoMessage(method string) string {
	switch method {
	case http.MethodPost:
		return "Record created successfully"
	case http.MethodPut, http.MethodPatch:
		return "Record updated successfully"
	case http.MethodDelete:
		return "Record deleted successfully"
	case http.MethodGet:
		return "Data retrieved successfully"
	default:
		return "Operation completed successfully"
	}
}

// getErrorMessage generates appropriate error messages
func getErrorMessage(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Invalid request data"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Permission denied"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Resource already exists"
	case http.StatusTooManyRequests:
		return "Too many requests"
	case http.StatusServiceUnavailable:
		return "Service unavailable"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return "Operation failed"
	}
}
