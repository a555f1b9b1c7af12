package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/circleup/api-go/controllers"
)

func SetupLeaderboardRoutes(protected *gin.RouterGroup, leaderboardController *controllers.LeaderboardController) {
	protected.GET("/leaderboard", leaderboardController.GetLeaderboard)
}
