package app

import (
	"career_compass_backend/docs"
	"career_compass_backend/internal/config"
	"career_compass_backend/internal/middleware"
	"career_compass_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/assessment-types", c.catalog.ListAssessmentTypes)
	}

	// 2. 需要授权的路由
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		auth.POST("/assessments/:category/submit", c.assessment.Submit)

		drafts := auth.Group("/drafts")
		{
			drafts.POST("", c.draft.Create)
			drafts.GET("", c.draft.List)
			drafts.GET("/:id", c.draft.Get)
			drafts.PATCH("/:id", c.draft.Update)
			drafts.DELETE("/:id", c.draft.Delete)
			drafts.POST("/:id/submit", c.draft.Submit)
		}

		tests := auth.Group("/tests")
		{
			tests.GET("", c.test.List)
			tests.GET("/:id/result", c.test.Result)
			tests.GET("/:id/export", c.test.Export)
			tests.DELETE("/:id", c.test.Delete)
		}
	}
}
