package api

import (
	"errors"
	"net/http"

	"github.com/dmsavelev/tripbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{Success: status < 400, Message: message, Data: data})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		business   *domain.BusinessRuleError
		remote     *domain.RemoteCallError
	)

	switch {
	case errors.As(err, &validation):
		respond(c, http.StatusBadRequest, validation.Error(), nil)
	case errors.As(err, &notFound):
		respond(c, http.StatusNotFound, notFound.Error(), nil)
	case errors.As(err, &business):
		respond(c, http.StatusBadRequest, business.Error(), nil)
	case errors.As(err, &remote):
		respond(c, http.StatusInternalServerError, remote.Error(), nil)
	default:
		respond(c, http.StatusInternalServerError, "internal error", nil)
	}
}
