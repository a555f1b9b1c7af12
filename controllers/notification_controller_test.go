package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
)

func createNotification(t *testing.T, db *gorm.DB, sender, recipient uint, createdAt time.Time) *models.Notification {
	t.Helper()
	n := models.Notification{SenderID: sender, RecipientID: recipient, Type: models.NotificationTypeAnswer}
	require.NoError(t, db.Create(&n).Error)
	require.NoError(t, db.Model(&n).UpdateColumn("created_at", createdAt).Error)
	return &n
}

func TestNotificationWindowStart(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.Local)
	start := notificationWindowStart(now)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local), start)
}

func TestGetAllScopedToRecipientAndWindow(t *testing.T) {
	db := setupTestDB(t)
	recipient := createUser(t, db, "recipient", "female", 0)
	sender := createUser(t, db, "sender", "male", 0)

	now := time.Now()
	inWindow := createNotification(t, db, sender.ID, recipient.ID, now.Add(-time.Hour))
	alsoIn := createNotification(t, db, sender.ID, recipient.ID, notificationWindowStart(now).Add(time.Minute))
	createNotification(t, db, sender.ID, recipient.ID, now.AddDate(0, 0, -3)) // too old
	createNotification(t, db, recipient.ID, sender.ID, now.Add(-time.Hour))   // someone else's

	w := doRequest(t, newTestRouter(db, recipient), http.MethodGet, "/notification/all", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var notifications []models.Notification
	decodeBody(t, w, &notifications)
	require.Len(t, notifications, 2)
	// Newest first.
	assert.Equal(t, inWindow.ID, notifications[0].ID)
	assert.Equal(t, alsoIn.ID, notifications[1].ID)
}

func TestGetNewReportsUnread(t *testing.T) {
	db := setupTestDB(t)
	recipient := createUser(t, db, "recipient", "female", 0)
	sender := createUser(t, db, "sender", "male", 0)
	r := newTestRouter(db, recipient)

	w := doRequest(t, r, http.MethodGet, "/notification/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]bool
	decodeBody(t, w, &body)
	assert.False(t, body["hasNew"])

	n := createNotification(t, db, sender.ID, recipient.ID, time.Now())

	w = doRequest(t, r, http.MethodGet, "/notification/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &body)
	assert.True(t, body["hasNew"])

	require.NoError(t, db.Model(n).Update("status_read", true).Error)
	w = doRequest(t, r, http.MethodGet, "/notification/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &body)
	assert.False(t, body["hasNew"])
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	recipient := createUser(t, db, "recipient", "female", 0)
	sender := createUser(t, db, "sender", "male", 0)
	n := createNotification(t, db, sender.ID, recipient.ID, time.Now())
	r := newTestRouter(db, recipient)

	w := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/notification/read/%d", n.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, n.ID).Error)
	assert.True(t, reloaded.StatusRead)
	require.NotNil(t, reloaded.ReadDate)
	firstReadDate := *reloaded.ReadDate

	// Marking again succeeds and leaves the original read date alone.
	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/notification/read/%d", n.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&reloaded, n.ID).Error)
	require.NotNil(t, reloaded.ReadDate)
	assert.Equal(t, firstReadDate.Unix(), reloaded.ReadDate.Unix())

	w = doRequest(t, r, http.MethodPatch, "/notification/read/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevealChargesAndUnlocks(t *testing.T) {
	db := setupTestDB(t)
	recipient := createUser(t, db, "recipient", "female", 30)
	sender := createUser(t, db, "sender", "male", 0)
	n := createNotification(t, db, sender.ID, recipient.ID, time.Now())
	r := newTestRouter(db, recipient)

	w := doRequest(t, r, http.MethodPatch, fmt.Sprintf("/notification/reveal/%d", n.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, n.ID).Error)
	assert.True(t, reloaded.StatusRevealed)
	assert.Equal(t, int64(5), reloadUser(t, db, recipient.ID).Money)

	// Balance is now 5 < 25: the second reveal fails without debiting.
	other := createNotification(t, db, sender.ID, recipient.ID, time.Now())
	w = doRequest(t, r, http.MethodPatch, fmt.Sprintf("/notification/reveal/%d", other.ID), nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, int64(5), reloadUser(t, db, recipient.ID).Money)
}

func TestRevealMissingNotificationCostsNothing(t *testing.T) {
	db := setupTestDB(t)
	recipient := createUser(t, db, "recipient", "female", 100)

	w := doRequest(t, newTestRouter(db, recipient), http.MethodPatch, "/notification/reveal/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, int64(100), reloadUser(t, db, recipient.ID).Money)
}
