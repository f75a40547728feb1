package route

import (
	appcontext "github.com/SeakMengs/AutoSign/internal/app_context"
	"github.com/SeakMengs/AutoSign/internal/controller"
	"github.com/SeakMengs/AutoSign/internal/metrics"
	"github.com/SeakMengs/AutoSign/internal/middleware"
	"github.com/SeakMengs/AutoSign/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupRouter wires middleware, controllers and every route of the api.
func SetupRouter(app *appcontext.Application, _middleware *middleware.Middleware) *gin.Engine {
	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterCustomValidations(v); err != nil {
			app.Logger.Panicf("Failed to register custom validations: %v", err)
		}
	}

	r := gin.New()
	r.Use(_middleware.RequestID, _middleware.RequestLogger, _middleware.Recovery)

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition", "Retry-After"}
	r.Use(cors.New(corsConfig))

	_controller := controller.NewController(app)

	r.GET("/", _controller.Index.Index)
	r.GET("/health", _controller.Index.Health)
	r.GET("/metrics", metrics.Handler())

	rApi := r.Group("/api")
	rApi.Use(_middleware.RateLimiterMiddleware)

	V1_Auth(rApi, _controller.Auth)
	V1_Documents(rApi, _controller.Document, _controller.Template, _middleware)
	V1_Fields(rApi, _controller.Template, _middleware)
	V1_Contracts(rApi, _controller.Contract, _controller.Signature, _middleware)

	return r
}
