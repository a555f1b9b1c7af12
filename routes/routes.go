package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/circleup/api-go/controllers"
	"github.com/circleup/api-go/middleware"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	questionController := controllers.NewQuestionController(db)
	answerController := controllers.NewAnswerController(db)
	notificationController := controllers.NewNotificationController(db)
	circleController := controllers.NewCircleController(db)
	categoryController := controllers.NewCategoryController(db)
	leaderboardController := controllers.NewLeaderboardController(db)
	avatarController := controllers.NewAvatarController(db)

	// Public routes, throttled per IP
	limiter := middleware.NewIPRateLimiter(rate.Limit(1), 5)
	public := r.Group("/auth")
	public.Use(middleware.RateLimitMiddleware(limiter))
	{
		public.POST("/signup", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/refresh-token", authController.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)

		user := protected.Group("/user")
		{
			user.GET("", authController.GetProfile)
			user.PATCH("/edit", authController.UpdateProfile)
			user.GET("/daily", answerController.GetDailyCount)
			user.POST("/avatar/upload-url", avatarController.GetUploadURL)
			user.POST("/avatar/confirm", avatarController.ConfirmUpload)
		}

		SetupQuestionRoutes(protected, questionController)
		SetupAnswerRoutes(protected, answerController)
		SetupNotificationRoutes(protected, notificationController)
		SetupCircleRoutes(protected, circleController)
		SetupCategoryRoutes(protected, categoryController)
		SetupLeaderboardRoutes(protected, leaderboardController)
	}
}
