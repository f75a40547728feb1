package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	allowed, retryAfter := m.rateLimiter.Allow(ctx.ClientIP())
	if allowed {
		ctx.Next()
		return
	}

	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds <= 0 {
		seconds = 1
	}
	ctx.Header("Retry-After", strconv.Itoa(seconds))
	util.ResponseFailed(ctx, http.StatusTooManyRequests, "Too many requests", util.GenerateErrorMessages(errors.New("rate limit exceeded"), "rateLimit"), nil)
}
