package route

import (
	"github.com/SeakMengs/AutoSign/internal/controller"
	"github.com/SeakMengs/AutoSign/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Documents(r *gin.RouterGroup, dc *controller.DocumentController, tc *controller.TemplateController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/documents")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", dc.UploadDocument)
		v1.GET("", dc.GetDocuments)
		v1.GET("/:documentId", dc.GetDocumentById)
		v1.GET("/:documentId/file", dc.ServeDocumentFile)
		v1.GET("/:documentId/status", dc.GetDocumentStatus)
		v1.DELETE("/:documentId", dc.DeleteDocument)

		v1.GET("/:documentId/fields", tc.GetFields)
		v1.POST("/:documentId/fields", tc.AddField)

		v1.GET("/:documentId/roles", tc.GetRoles)
		v1.POST("/:documentId/roles", tc.AddRole)
		v1.DELETE("/:documentId/roles/:roleId", tc.RemoveRole)
	}
}

func V1_Fields(r *gin.RouterGroup, tc *controller.TemplateController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/fields")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.PUT("/:fieldId", tc.UpdateField)
		v1.DELETE("/:fieldId", tc.RemoveField)
	}
}
