package response

import (
	"errors"
	"log"
	"net/http"
	"time"

	"apistarter/internal/pkg/apierror"

	"github.com/gin-gonic/gin"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c *gin.Context, statusCode int, message string, data any) {
	body := gin.H{
		"success":   true,
		"message":   message,
		"timestamp": timestamp(),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	ErrorWithDetails(c, statusCode, code, message, nil)
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	errBody := gin.H{"code": code}
	if details != nil {
		errBody["details"] = details
	}
	c.JSON(statusCode, gin.H{
		"success":   false,
		"message":   message,
		"error":     errBody,
		"timestamp": timestamp(),
	})
}

// HandleError is the single place domain errors become wire responses.
// Handlers and middleware hand every error here unmodified; anything that
// is not an *apierror.Error is treated as an internal error, with the
// underlying message exposed only outside release mode.
func HandleError(c *gin.Context, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if apiErr.Kind == apierror.KindInternal {
			log.Printf("internal_error method=%s path=%s error=%q", c.Request.Method, c.Request.URL.Path, apiErr.Error())
			ErrorWithDetails(c, apiErr.Kind.HTTPStatus(), apiErr.Code, apiErr.Message, internalDetails(apiErr.Err))
			return
		}
		ErrorWithDetails(c, apiErr.Kind.HTTPStatus(), apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	log.Printf("unhandled_error method=%s path=%s error=%q", c.Request.Method, c.Request.URL.Path, err.Error())
	ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", internalDetails(err))
}

// AbortWithError is HandleError plus gin abort, for middleware.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}

func internalDetails(err error) any {
	if gin.Mode() == gin.ReleaseMode || err == nil {
		return nil
	}
	return err.Error()
}
