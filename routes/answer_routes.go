package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupAnswerRoutes(protected *gin.RouterGroup, answerController *controllers.AnswerController) {
	answers := protected.Group("/userAnswer")
	{
		answers.POST("/create/:questionId", answerController.CreateAnswer)
		answers.POST("/skip", answerController.Skip)
		answers.POST("/shuffle", answerController.Shuffle)
		answers.GET("/me", answerController.GetMyAnswers)
	}
}
