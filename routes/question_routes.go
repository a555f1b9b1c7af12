package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupQuestionRoutes(protected *gin.RouterGroup, questionController *controllers.QuestionController) {
	questions := protected.Group("/question")
	{
		questions.POST("/create", questionController.CreateQuestion)
		questions.PATCH("/validate/:questionId", questionController.ValidateQuestion)
		questions.GET("/single/random", questionController.GetRandomQuestion)
		questions.GET("/answer-options/:questionId", questionController.GetAnswerOptions)
	}
}
