package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/internal/service"
)

const msgInvalidCredentials = "Unable to authenticate with the given credentials."

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler renders the last error a handler attached with c.Error as JSON
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.WithFields(log.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).WithError(err).Error("Request failed")
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	if verr, ok := service.IsValidation(err); ok {
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields}
	}
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, ErrorResponse{
			Error:  "invalid credentials",
			Fields: map[string][]string{service.NonFieldErrors: {msgInvalidCredentials}},
		}
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: "Authentication credentials were not provided."}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "Invalid token."}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action."}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found."}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

// Recovery turns panics into a logged 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	})
}

// NoRoute answers unknown paths
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found."})
}

// NoMethod answers known paths requested with an unsupported method
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method \"" + c.Request.Method + "\" not allowed."})
}
