package handlers

import (
	"errors"
	"net/http"

	"examlink/services"

	"github.com/gin-gonic/gin"
)

// callerFromContext rebuilds the caller identity the auth middleware stored
// in the gin context.
func callerFromContext(c *gin.Context) (services.Caller, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return services.Caller{}, false
	}

	email, _ := c.Get("email")
	isAdmin, _ := c.Get("is_admin")

	caller := services.Caller{UserID: userID.(uint)}
	if s, ok := email.(string); ok {
		caller.Email = s
	}
	if b, ok := isAdmin.(bool); ok {
		caller.IsAdmin = b
	}

	return caller, true
}

// respondError maps service errors to HTTP statuses. Unknown errors become a
// generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrExamNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrCandidateNotFound),
		errors.Is(err, services.ErrResultNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrInvalidExamLink):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTestCompleted),
		errors.Is(err, services.ErrInvalidQuestionType),
		errors.Is(err, services.ErrNoCorrectOption),
		errors.Is(err, services.ErrMissingOptions),
		errors.Is(err, services.ErrMissingText):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
	}
}
