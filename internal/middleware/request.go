package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
)

// RequestID reuses the caller's X-Request-Id or generates one, and echoes it back.
func (m Middleware) RequestID(ctx *gin.Context) {
	id := ctx.GetHeader(RequestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}

	ctx.Set(requestIDKey, id)
	ctx.Writer.Header().Set(RequestIDHeader, id)
	ctx.Next()
}

func RequestIDFromContext(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}

// RequestLogger writes one structured line per request.
func (m Middleware) RequestLogger(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodOptions {
		ctx.Next()
		return
	}

	start := time.Now()
	ctx.Next()

	fields := []any{
		"requestId", RequestIDFromContext(ctx),
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", float64(time.Since(start).Microseconds()) / 1000.0,
		"clientIp", ctx.ClientIP(),
	}

	switch status := ctx.Writer.Status(); {
	case status >= http.StatusInternalServerError:
		m.app.Logger.Errorw("request completed", fields...)
	case status >= http.StatusBadRequest:
		m.app.Logger.Infow("request completed", fields...)
	default:
		m.app.Logger.Debugw("request completed", fields...)
	}
}

// Recovery turns a panic into a 500 with the usual response body.
func (m Middleware) Recovery(ctx *gin.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			m.app.Logger.Errorw("panic recovered",
				"requestId", RequestIDFromContext(ctx),
				"error", rec,
				"path", ctx.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Unexpected server error", util.GenerateErrorMessages(fmt.Errorf("internal server error"), "server"), nil)
		}
	}()
	ctx.Next()
}
