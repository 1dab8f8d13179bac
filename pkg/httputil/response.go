package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody carries a plain confirmation message.
type MessageBody struct {
	Message string `json:"message"`
}

// RespondWithSuccess sends a 200 response with data as the body
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithCreated sends a 201 response with data as the body
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondWithMessage sends a 200 response with a message body
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// RespondNoContent sends a 204 response
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithError sends an error response. AppErrors choose their own status;
// anything else is reported as a server error with the underlying message.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "Server error: " + err.Error()

	if appErr, ok := apperrors.As(err); ok {
		statusCode = appErr.StatusCode()
		message = appErr.Message
	}

	if statusCode >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("Request failed")
	}

	c.JSON(statusCode, ErrorBody{Error: message})
}

// RespondWithBindError reports a request body that could not be decoded or
// failed its binding tags.
func RespondWithBindError(c *gin.Context, err error) {
	RespondWithError(c, apperrors.BadRequest(BindingMessage(err), err))
}

// BindingMessage renders a binding failure as a single readable sentence.
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}

// Int64Param reads a numeric path parameter.
func Int64Param(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest(fmt.Sprintf("Invalid %s: %s", name, raw), err)
	}
	return id, nil
}
