package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/costofequity/internal/domain/dto"
	"github.com/guttosm/costofequity/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON response when
// the handler did not write one itself.
//
// Behavior:
//   - Runs after the handler chain.
//   - If an error is a dto.ErrorResponse it is sent with its Status (500
//     when unset); otherwise it is wrapped as a 500 "Internal server error".
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	last := c.Errors.Last()
	logger.L().Error().
		Str("request_id", c.GetString(RequestIDKey)).
		Err(last.Err).
		Msg("request error")

	if c.Writer.Written() {
		return
	}
	var resp dto.ErrorResponse
	if errors.As(last.Err, &resp) {
		status := resp.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.AbortWithStatusJSON(status, resp)
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last.Err))
}

// AbortWithError stops the chain with status and a standard error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
