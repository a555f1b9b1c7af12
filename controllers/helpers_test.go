package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Circle{}, &models.Category{},
		&models.Question{}, &models.UserAnswer{}, &models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, gender string, money int64) *models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hash",
		Gender:   gender,
		Role:     models.RoleUser,
		Money:    money,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createCircle(t *testing.T, db *gorm.DB, name string, admin *models.User, members ...*models.User) *models.Circle {
	t.Helper()

	circle := models.Circle{Name: name, Admins: []models.User{*admin}}
	require.NoError(t, db.Create(&circle).Error)
	for _, member := range members {
		require.NoError(t, db.Model(member).Association("Circles").Append(&circle))
	}
	return &circle
}

// authAs replaces the JWT middleware in tests: it injects the given user's
// claims straight into the request context.
func authAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(utils.UserContextKey), &utils.UserClaims{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// newTestRouter wires the authenticated API surface with authAs in place of
// the JWT middleware, mirroring routes.SetupRoutes.
func newTestRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	questionController := NewQuestionController(db)
	answerController := NewAnswerController(db)
	notificationController := NewNotificationController(db)
	circleController := NewCircleController(db)
	categoryController := NewCategoryController(db)
	leaderboardController := NewLeaderboardController(db)

	protected := r.Group("/")
	protected.Use(authAs(user))
	{
		questions := protected.Group("/question")
		questions.POST("/create", questionController.CreateQuestion)
		questions.PATCH("/validate/:questionId", questionController.ValidateQuestion)
		questions.GET("/single/random", questionController.GetRandomQuestion)
		questions.GET("/answer-options/:questionId", questionController.GetAnswerOptions)

		answers := protected.Group("/userAnswer")
		answers.POST("/create/:questionId", answerController.CreateAnswer)
		answers.POST("/skip", answerController.Skip)
		answers.POST("/shuffle", answerController.Shuffle)
		answers.GET("/me", answerController.GetMyAnswers)

		notifications := protected.Group("/notification")
		notifications.GET("/all", notificationController.GetAll)
		notifications.GET("/new", notificationController.GetNew)
		notifications.PATCH("/read/:notificationId", notificationController.MarkRead)
		notifications.PATCH("/reveal/:notificationId", notificationController.Reveal)

		circles := protected.Group("/circle")
		circles.GET("/all", circleController.GetAll)
		circles.GET("/me", circleController.GetMine)
		circles.POST("/create", circleController.Create)
		circles.PUT("/join/:circleId", circleController.Join)
		circles.DELETE("/exit/:circleId", circleController.Exit)

		categories := protected.Group("/categories")
		categories.GET("", categoryController.GetAll)
		categories.POST("/create", categoryController.Create)

		protected.GET("/leaderboard", leaderboardController.GetLeaderboard)
		protected.GET("/user/daily", answerController.GetDailyCount)
	}

	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
