package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/codementor/internal/resilience/classify"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgServerError        = "Server error"
	msgAIError            = "AI service error"
	msgAINotConfigured    = "AI service is not configured"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgNoToken            = "No token, authorization denied"
	msgBadToken           = "Token is not valid"
	msgPlanNotFound       = "Plan not found"
	msgForbidden          = "Unauthorized"
	msgRateLimited        = "Too many requests"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// invalid writes field errors. It reports whether res was invalid.
func invalid(c *gin.Context, res validate.Result) bool {
	if res.Valid {
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"message": classify.MsgInvalidFields,
		"errors":  res.FieldErrors,
	})
	return true
}

// upstream maps a failed dependency call to a response.
func (s *Server) upstream(c *gin.Context, op string, err error) {
	cause := classify.Classify(err)
	s.log.Error("Upstream call failed",
		"operation", op,
		"category", cause.Category,
		"status", cause.Status,
		"request_id", c.GetString(requestIDKey),
		"error", err,
	)
	c.AbortWithStatusJSON(classify.HTTPStatus(cause.Category), gin.H{
		"message": msgAIError,
		"error":   cause.UserMessage,
	})
}

func (s *Server) internal(c *gin.Context, op string, err error) {
	s.log.Error("Request failed", "operation", op, "request_id", c.GetString(requestIDKey), "error", err)
	abort(c, http.StatusInternalServerError, msgServerError)
}
