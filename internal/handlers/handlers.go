package handlers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/project-task-api/internal/auth"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/logger"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/query"
)

const (
	invalidBodyMessage = "Invalid request body"
	invalidDateMessage = "Invalid date format. Date format should be YYYY-MM-DD"
)

func init() {
	// Report validation failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the request body and answers with a validation error on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for partial updates, where an empty body changes nothing.
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return false
	}
	return true
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.ValidationError(c, invalidBodyMessage)
		return
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	apierrors.ValidationErrorWithDetails(c, invalidBodyMessage, details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// parseBodyDate parses a YYYY-MM-DD field of a request body.
func parseBodyDate(c *gin.Context, field, value string) (time.Time, bool) {
	date, err := query.ParseDate(strings.TrimSpace(value))
	if err != nil {
		apierrors.ValidationErrorWithDetails(c, invalidBodyMessage, map[string]string{field: invalidDateMessage})
		return time.Time{}, false
	}
	return date, true
}

// queryID reads a numeric ID from the query string.
func queryID(c *gin.Context, key string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func requireScope(c *gin.Context) (auth.Scope, bool) {
	scope, ok := middleware.GetScope(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return auth.Scope{}, false
	}
	return scope, true
}

// respondQueryError answers with the error code of a rejected list parameter.
// It reports false when err did not come from the query pipeline.
func respondQueryError(c *gin.Context, err error) bool {
	var boundErr *query.MissingBoundError
	switch {
	case errors.Is(err, query.ErrInvalidSortOption):
		apierrors.QueryError(c, apierrors.ErrCodeInvalidSortOption, "Invalid sort option")
	case errors.As(err, &boundErr):
		apierrors.QueryError(c, apierrors.ErrCodeMissingRangeBound, boundErr.Message())
	case errors.Is(err, query.ErrInvalidDateFormat):
		apierrors.QueryError(c, apierrors.ErrCodeInvalidDateFormat, invalidDateMessage)
	default:
		return false
	}
	return true
}

// internalError logs err with the request logger and hides it from the client.
func internalError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error().Err(err).Msg("request failed")
	apierrors.InternalError(c, "")
}
