package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platewise/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// RespondWithError writes the JSON error response for a classified
// service error. Input problems map to 4xx, provider failures to the
// status matching their reason, and everything else to 500.
func RespondWithError(c *gin.Context, err error) {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: inputErr.Error()})
		return
	}

	if ue, ok := service.IsUpstreamError(err); ok {
		status := http.StatusBadGateway
		switch ue.Reason {
		case service.ReasonRateLimited:
			status = http.StatusTooManyRequests
		case service.ReasonTimeout:
			status = http.StatusGatewayTimeout
		case service.ReasonUnsupportedFormat:
			status = http.StatusUnprocessableEntity
		case service.ReasonContentPolicy:
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: "meal analysis failed", Reason: string(ue.Reason)})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}

	var persistErr *service.PersistenceError
	if errors.As(err, &persistErr) {
		log.Printf("[ErrorHandler] %v", persistErr)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "storage failure, please retry"})
		return
	}

	log.Printf("[ErrorHandler] unclassified error: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// ErrorHandler recovers from panics in handlers and converts them into
// a JSON 500 response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[ErrorHandler] panic: %v", r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()
		c.Next()
	}
}
