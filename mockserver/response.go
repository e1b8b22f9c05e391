package mockserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope mirrors the API's response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// apiError is a failure carrying its HTTP status.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func notFound(what string) *apiError {
	return &apiError{status: http.StatusNotFound, message: what + " not found"}
}

func badRequest(message string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: message}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondDeleted(c *gin.Context, what string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: what + " deleted"})
}

// respondError writes an apiError with its status, anything else as a 500.
func respondError(c *gin.Context, err error) {
	if e, ok := err.(*apiError); ok {
		c.AbortWithStatusJSON(e.status, envelope{Message: e.message})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Message: "Internal server error"})
}
