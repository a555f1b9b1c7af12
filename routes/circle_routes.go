package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupCircleRoutes(protected *gin.RouterGroup, circleController *controllers.CircleController) {
	circles := protected.Group("/circle")
	{
		circles.GET("/all", circleController.GetAll)
		circles.GET("/me", circleController.GetMine)
		circles.GET("/me/admin", circleController.GetAdministered)
		circles.GET("/admins/:circleId", circleController.GetAdmins)
		circles.POST("/create", circleController.Create)
		circles.PUT("/join/:circleId", circleController.Join)
		circles.DELETE("/exit/:circleId", circleController.Exit)
	}
}
