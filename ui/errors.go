package ui

import (
	"log"
	"net/http"

	"gohousehold/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error code to its HTTP status. Load failures and missing keys mean
// the dataset is broken, so only INVALID_INPUT is the caller's fault.
func statusFor(err error) int {
	if errors.GetCode(err) == errors.CodeInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// renderError logs the failure and renders the error page
func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	log.Printf("[Dashboard] %s %s failed (request %s): %v", c.Request.Method, c.Request.URL.Path, GetRequestID(c), err)
	s.renderTemplate(c, status, errorTemplate, gin.H{
		"Status":    status,
		"Code":      errors.GetCode(err),
		"Message":   err.Error(),
		"RequestID": GetRequestID(c),
	})
}

func (s *Server) renderNotFound(c *gin.Context, what string) {
	s.renderTemplate(c, http.StatusNotFound, errorTemplate, gin.H{
		"Status":    http.StatusNotFound,
		"Code":      "NOT_FOUND",
		"Message":   what + " not found",
		"RequestID": GetRequestID(c),
	})
}
