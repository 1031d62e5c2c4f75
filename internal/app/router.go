package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)
	a.registerCatalogRoutes(router, c)
	a.registerAuthorizedRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/users/forgot-password", c.auth.ForgotPassword)
		public.PUT("/users/reset-password/:token", c.auth.ResetPassword)
	}
}

// Catalog routes work for guests; a token, when present, is parsed so
// handlers can tailor the response.
func (a *App) registerCatalogRoutes(router *gin.Engine, c *controllers) {
	catalog := router.Group("/api/courses")
	catalog.Use(middleware.TryAuthMiddleware(a.Config))
	{
		catalog.GET("/published", c.course.ListPublished)
		catalog.GET("/slug/:slug", c.course.GetBySlug)
		catalog.GET("/:id", c.course.Get)
		catalog.GET("/:id/lessons", c.lesson.List)
		catalog.GET("/:id/lessons/:lessonId", c.lesson.Get)
	}
}

func (a *App) registerAuthorizedRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	auth := router.Group("/api")
	auth.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		auth.POST("/auth/logout", c.auth.Logout)

		auth.GET("/users/profile", c.user.Profile)
		auth.PUT("/users/profile", c.user.UpdateProfile)
		auth.POST("/users/profile/avatar", c.user.UploadAvatar)

		// Student routes
		auth.POST("/courses/:id/enroll", c.enrollment.Enroll)
		auth.GET("/enrollments", c.enrollment.Mine)
		auth.GET("/courses/:id/progress", c.enrollment.Progress)
		auth.PUT("/courses/:id/progress", c.enrollment.UpdateProgress)
		auth.POST("/courses/:id/complete", c.enrollment.Complete)
		auth.POST("/courses/:id/rate", c.course.Rate)

		auth.POST("/quizzes/:quizId/attempts/start", c.attempt.Start)
		auth.POST("/quizzes/:quizId/attempts", c.attempt.Submit)
		auth.GET("/attempts", c.attempt.Mine)
		auth.GET("/attempts/:attemptId", c.attempt.Get)

		auth.GET("/lessons/:lessonId/quizzes/:quizId", c.quiz.Get)

		// Instructor routes; admin passes every gate
		instructor := auth.Group("")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/courses", c.course.Create)
			instructor.GET("/courses/mine", c.course.ListMine)
			instructor.PUT("/courses/:id", c.course.Update)
			instructor.DELETE("/courses/:id", c.course.Delete)
			instructor.PUT("/courses/:id/publish", c.course.Publish)
			instructor.PUT("/courses/:id/unpublish", c.course.Unpublish)
			instructor.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)
			instructor.GET("/courses/:id/enrollments", c.enrollment.ByCourse)

			instructor.POST("/courses/:id/lessons", c.lesson.Create)
			instructor.PUT("/courses/:id/lessons/:lessonId", c.lesson.Update)
			instructor.DELETE("/courses/:id/lessons/:lessonId", c.lesson.Delete)
			instructor.POST("/courses/:id/lessons/:lessonId/asset", c.lesson.UploadAsset)

			instructor.GET("/courses/:id/lessons/:lessonId/quizzes", c.quiz.List)
			instructor.POST("/courses/:id/lessons/:lessonId/quizzes", c.quiz.Create)
			instructor.POST("/courses/:id/lessons/:lessonId/quizzes/generate", c.quiz.Generate)
			instructor.PUT("/lessons/:lessonId/quizzes/:quizId", c.quiz.Update)
			instructor.DELETE("/lessons/:lessonId/quizzes/:quizId", c.quiz.Delete)
			instructor.PUT("/lessons/:lessonId/quizzes/:quizId/toggle", c.quiz.ToggleActive)
		}

		// Admin routes
		admin := auth.Group("")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.GET("/courses", c.course.ListAll)
			admin.GET("/users", c.user.List)
			admin.GET("/users/:id", c.user.Get)
			admin.DELETE("/users/:id", c.user.Delete)
		}
	}
}
