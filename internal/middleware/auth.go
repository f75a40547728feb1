package middleware

import (
	"net/http"

	"github.com/SeakMengs/AutoSign/internal/constant"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	if !m.authenticate(ctx, token) {
		return
	}
	ctx.Next()
}

// OptionalAuthMiddleware is used on routes a signer may reach through the signing link alone.
// A missing token is fine, a bad one is still rejected.
func (m Middleware) OptionalAuthMiddleware(ctx *gin.Context) {
	if ctx.GetHeader("Authorization") == "" {
		ctx.Next()
		return
	}

	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return
	}

	if !m.authenticate(ctx, token) {
		return
	}
	ctx.Next()
}

func (m Middleware) authenticate(ctx *gin.Context, token string) bool {
	claim, err := m.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return false
	}

	if claim.Type != constant.JWT_TYPE_ACCESS {
		m.app.Logger.Debugf("Invalid token type: %s", claim.Type)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid access token type", []util.ApiError{{Field: "unauthorized", Message: "access token required"}}, nil)
		return false
	}

	ctx.Set("user", claim.User)
	return true
}
