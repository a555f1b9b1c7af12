package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupCategoryRoutes(protected *gin.RouterGroup, categoryController *controllers.CategoryController) {
	categories := protected.Group("/categories")
	{
		categories.GET("", categoryController.GetAll)
		categories.POST("/create", categoryController.Create)
	}
}
