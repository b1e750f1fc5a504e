package handlers

import (
	"errors"
	"log"
	"net/http"

	"buslink/internal/services"

	"github.com/gin-gonic/gin"
)

var statusByCode = map[services.Code]int{
	services.CodeNotFound:     http.StatusNotFound,
	services.CodeValidation:   http.StatusBadRequest,
	services.CodeRateLimited:  http.StatusTooManyRequests,
	services.CodeDuplicate:    http.StatusBadRequest,
	services.CodeUnauthorized: http.StatusUnauthorized,
	services.CodeConflict:     http.StatusConflict,
	services.CodeInternal:     http.StatusInternalServerError,
}

// RenderError writes err as a JSON error body with the matching status.
func RenderError(c *gin.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = &services.Error{Code: services.CodeInternal, Message: "internal error", Err: err}
	}

	status, ok := statusByCode[e.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{"code": e.Code, "message": e.Message}
	if status == http.StatusInternalServerError {
		// 不向客户端暴露内部细节
		log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body["message"] = "something went wrong, please try again later"
	}
	if e.Field != "" {
		body["field"] = e.Field
		body["fieldErrors"] = gin.H{e.Field: []string{e.Message}}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func badRequest(c *gin.Context, message string) {
	RenderError(c, services.Validation("", message))
}
