package handler

import (
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"github.com/brlima/auth-gateway/internal/model"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeError maps an error to its HTTP response. Validation failures
// become a 400 with one entry per offending field; APIError carries its
// own status and either a message or a structured detail payload;
// anything else defaults to 400 with the error text.
func writeError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make([]fieldError, 0, len(fieldErrs))
		for name, fieldErr := range fieldErrs {
			fields = append(fields, fieldError{Field: name, Message: fieldErr.Error()})
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Details != nil {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Details})
			return
		}
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
