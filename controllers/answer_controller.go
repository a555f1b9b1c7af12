package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/types"
	"github.com/circleup/api-go/utils"
)

type AnswerController struct {
	DB *gorm.DB
}

func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{DB: db}
}

// debitMoney applies a conditional decrement: the balance only moves when
// it covers the cost, so two concurrent debits can never jointly
// over-withdraw. Returns false when the balance was insufficient.
func debitMoney(db *gorm.DB, userID uint, cost int64) (bool, error) {
	result := db.Model(&models.User{}).
		Where("id = ? AND money >= ?", userID, cost).
		UpdateColumn("money", gorm.Expr("money - ?", cost))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// recountDailyAnswers recomputes the caller's answer count for the current
// local calendar day from the user_answers log and writes it back onto the
// user row. The counter is a cache; the log is the source of truth.
func recountDailyAnswers(db *gorm.DB, userID uint) (int64, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var count int64
	err := db.Model(&models.UserAnswer{}).
		Where("user_asked_id = ? AND created_at >= ? AND created_at < ?", userID, startOfDay, endOfDay).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	err = db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("daily_questions_answered", count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAnswer records one answer: the append-only UserAnswer row, the +1
// reward, the refreshed daily counter and the notification to the user the
// answer is about, all in one transaction.
func (ac *AnswerController) CreateAnswer(c *gin.Context) {
	claims := utils.GetUser(c)
	questionID := c.Param("questionId")

	var input struct {
		UserAnswered uint   `json:"userAnswered" binding:"required"`
		UsersIgnored []uint `json:"usersIgnored"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var question models.Question
	if err := ac.DB.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	var answeredUser models.User
	if err := ac.DB.First(&answeredUser, input.UserAnswered).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Answered user not found"})
		return
	}

	tx := ac.DB.Begin()

	answer := models.UserAnswer{
		QuestionID:     question.ID,
		UserAskedID:    claims.UserID,
		UserAnsweredID: answeredUser.ID,
	}
	if len(input.UsersIgnored) > 0 {
		var ignored []models.User
		if err := tx.Find(&ignored, input.UsersIgnored).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve ignored users"})
			return
		}
		answer.UsersIgnored = ignored
	}

	if err := tx.Create(&answer).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record answer"})
		return
	}

	now := time.Now()
	err := tx.Model(&models.User{}).
		Where("id = ?", claims.UserID).
		Updates(map[string]interface{}{
			"money":              gorm.Expr("money + ?", types.ANSWER_REWARD),
			"last_answered_date": now,
		}).Error
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit reward"})
		return
	}

	if _, err := recountDailyAnswers(tx, claims.UserID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update daily count"})
		return
	}

	notification := models.Notification{
		ActionID:    &answer.ID,
		SenderID:    claims.UserID,
		RecipientID: answeredUser.ID,
		Type:        models.NotificationTypeAnswer,
	}
	if err := tx.Create(&notification).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	tx.Commit()

	var updatedUser models.User
	ac.DB.First(&updatedUser, claims.UserID)

	c.JSON(http.StatusOK, gin.H{"answer": answer, "updatedUser": updatedUser})
}

// Skip charges the skip cost and counts the skipped question against the
// daily quota in the same conditional update, so an insufficient balance
// leaves both fields untouched.
func (ac *AnswerController) Skip(c *gin.Context) {
	claims := utils.GetUser(c)

	result := ac.DB.Model(&models.User{}).
		Where("id = ? AND money >= ?", claims.UserID, types.SKIP_COST).
		UpdateColumns(map[string]interface{}{
			"money":                    gorm.Expr("money - ?", types.SKIP_COST),
			"daily_questions_answered": gorm.Expr("daily_questions_answered + 1"),
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to skip question"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusPaymentRequired, gin.H{"msg": "Insufficient money"})
		return
	}

	var user models.User
	ac.DB.First(&user, claims.UserID)
	c.JSON(http.StatusOK, gin.H{"money": user.Money})
}

// Shuffle charges for a fresh set of answer options. Balance only; a
// shuffle does not count against the daily quota.
func (ac *AnswerController) Shuffle(c *gin.Context) {
	claims := utils.GetUser(c)

	ok, err := debitMoney(ac.DB, claims.UserID, types.SHUFFLE_COST)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to shuffle answer options"})
		return
	}
	if !ok {
		c.JSON(http.StatusPaymentRequired, gin.H{"msg": "Insufficient money"})
		return
	}

	var user models.User
	ac.DB.First(&user, claims.UserID)
	c.JSON(http.StatusOK, gin.H{"money": user.Money})
}

func (ac *AnswerController) GetMyAnswers(c *gin.Context) {
	claims := utils.GetUser(c)

	var answers []models.UserAnswer
	err := ac.DB.
		Preload("Question").
		Preload("UserAnswered").
		Preload("UsersIgnored").
		Where("user_asked_id = ?", claims.UserID).
		Order("created_at desc").
		Find(&answers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answers"})
		return
	}
	c.JSON(http.StatusOK, answers)
}

// GetDailyCount re-derives today's answer count from the log before
// answering, healing the cached counter if anything drifted.
func (ac *AnswerController) GetDailyCount(c *gin.Context) {
	claims := utils.GetUser(c)

	count, err := recountDailyAnswers(ac.DB, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count answers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dailyQuestionsAnswered": count})
}
