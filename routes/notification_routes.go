package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupNotificationRoutes(protected *gin.RouterGroup, notificationController *controllers.NotificationController) {
	notifications := protected.Group("/notification")
	{
		notifications.GET("/all", notificationController.GetAll)
		notifications.GET("/new", notificationController.GetNew)
		notifications.PATCH("/read/:notificationId", notificationController.MarkRead)
		notifications.PATCH("/reveal/:notificationId", notificationController.Reveal)
	}
}
