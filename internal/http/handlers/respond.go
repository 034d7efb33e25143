package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gallerie/storefront/internal/apperr"
)

// Every response carries the same envelope: {success, message?, ...}.
// Payload keys sit at the top level next to success.

func Respond(ctx *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	ctx.JSON(status, body)
}

func RespondOK(ctx *gin.Context, payload gin.H) {
	Respond(ctx, http.StatusOK, payload)
}

func RespondCreated(ctx *gin.Context, payload gin.H) {
	Respond(ctx, http.StatusCreated, payload)
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if id := requestIDFrom(ctx); id != "" {
		body["requestId"] = id
	}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}

// RespondAppError maps the error taxonomy onto status codes:
// 400 validation, 401 auth, 403 forbidden, 404 not found, 409
// conflict, everything else 500.
func RespondAppError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	}

	RespondError(ctx, status, err.Error(), nil)
}
