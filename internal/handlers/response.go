package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/services"
	"github.com/alimgiray/coursescope/pkg/logger"
)

// errBadRequest marks request parsing failures
var errBadRequest = errors.New("bad request")

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// respondError maps service errors onto status codes. Unknown errors are logged and
// hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, sql.ErrNoRows):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrRepositoryNotInProject):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationErr):
		status = http.StatusBadRequest
	}

	message := err.Error()
	if status == http.StatusNotFound {
		message = "Not found"
	}
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		message = "Internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
