// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/labuuit/backend/internal/pkg/apperror"
	"github.com/labuuit/backend/internal/pkg/pagination"
)

// envelope is the uniform response body for every endpoint
type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// respondOK writes a success envelope
func respondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondPage writes a success envelope carrying a pagination block
func respondPage(c *gin.Context, message string, data interface{}, p pagination.Pagination) {
	c.JSON(http.StatusOK, envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

// respondError maps an error to its HTTP status. Internal causes are logged
// and never exposed to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).WithError(appErr.Cause).Error("request failed")
	}

	c.JSON(appErr.Status(), envelope{
		Success: false,
		Error:   appErr.Message,
	})
}

// respondBadRequest writes a validation failure envelope
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   message,
	})
}

func errUnauthenticated() error {
	return apperror.Unauthorized("Authentication required")
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
