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

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// notificationWindowStart returns local midnight of yesterday: the window
// spans two calendar days, not a strict 48 hours.
func notificationWindowStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-(types.NOTIFICATION_WINDOW_DAYS-1), 0, 0, 0, 0, now.Location())
}

func (nc *NotificationController) GetAll(c *gin.Context) {
	claims := utils.GetUser(c)
	windowStart := notificationWindowStart(time.Now())

	var notifications []models.Notification
	err := nc.DB.
		Preload("Sender").
		Preload("Action").
		Where("recipient_id = ? AND created_at >= ?", claims.UserID, windowStart).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something bad happened"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetNew reports whether any notification in the window is still unread.
func (nc *NotificationController) GetNew(c *gin.Context) {
	claims := utils.GetUser(c)
	windowStart := notificationWindowStart(time.Now())

	var count int64
	err := nc.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND created_at >= ? AND status_read = ?", claims.UserID, windowStart, false).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something bad happened"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasNew": count > 0})
}

// MarkRead is idempotent: re-marking an already-read notification is a
// no-op success.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	notificationID := c.Param("notificationId")

	var notification models.Notification
	if err := nc.DB.First(&notification, notificationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Notification not found"})
		return
	}

	if !notification.StatusRead {
		now := time.Now()
		err := nc.DB.Model(&notification).Updates(map[string]interface{}{
			"status_read": true,
			"read_date":   now,
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error updating notification"})
			return
		}
	}

	c.JSON(http.StatusOK, notification)
}

// Reveal unlocks a notification's content for the reveal cost. The target
// is checked before the debit so a missing notification never costs money.
func (nc *NotificationController) Reveal(c *gin.Context) {
	claims := utils.GetUser(c)
	notificationID := c.Param("notificationId")

	var notification models.Notification
	if err := nc.DB.First(&notification, notificationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Notification not found"})
		return
	}

	ok, err := debitMoney(nc.DB, claims.UserID, types.REVEAL_COST)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error updating notification"})
		return
	}
	if !ok {
		c.JSON(http.StatusPaymentRequired, gin.H{"msg": "Insufficient money"})
		return
	}

	if err := nc.DB.Model(&notification).Update("status_revealed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error updating notification"})
		return
	}

	c.JSON(http.StatusOK, notification)
}
