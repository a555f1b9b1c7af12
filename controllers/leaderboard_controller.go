package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/utils"
)

type LeaderboardController struct {
	DB *gorm.DB
}

type LeaderboardQuery struct {
	CircleID   uint `form:"circle" binding:"required"`
	CategoryID uint `form:"category" binding:"required"`
}

type LeaderboardEntry struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Score  int64  `json:"score"`
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{DB: db}
}

// GetLeaderboard scores the members of one circle for one category: +1 for
// every answer naming them on a question that lists the category as
// positive, -1 when negative. Global questions count for every circle.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims := utils.GetUser(c)

	var membership int64
	lc.DB.Table("circle_members").
		Where("user_id = ? AND circle_id = ?", claims.UserID, query.CircleID).
		Count(&membership)
	if membership == 0 {
		c.JSON(http.StatusForbidden, gin.H{"msg": "User does not belong to this circle"})
		return
	}

	positive, err := lc.categoryCounts("question_positive_categories", query.CircleID, query.CategoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}
	negative, err := lc.categoryCounts("question_negative_categories", query.CircleID, query.CategoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	var members []models.User
	err = lc.DB.
		Joins("JOIN circle_members cm ON cm.user_id = users.id").
		Where("cm.circle_id = ? AND users.is_active = ?", query.CircleID, true).
		Find(&members).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch circle members"})
		return
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, LeaderboardEntry{
			UserID: member.ID,
			Name:   member.Name,
			Score:  positive[member.ID] - negative[member.ID],
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })

	c.JSON(http.StatusOK, entries)
}

// categoryCounts tallies answers per answered user for questions linked to
// the category through the given join table, scoped to the circle or global.
func (lc *LeaderboardController) categoryCounts(joinTable string, circleID, categoryID uint) (map[uint]int64, error) {
	type row struct {
		UserAnsweredID uint
		Total          int64
	}
	var rows []row
	err := lc.DB.Table("user_answers").
		Select("user_answers.user_answered_id, COUNT(*) as total").
		Joins("JOIN questions ON questions.id = user_answers.question_id").
		Joins("JOIN "+joinTable+" link ON link.question_id = questions.id").
		Where("link.category_id = ? AND (questions.is_global = ? OR questions.circle_id = ?)", categoryID, true, circleID).
		Where("user_answers.deleted_at IS NULL AND questions.deleted_at IS NULL").
		Group("user_answers.user_answered_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.UserAnsweredID] = r.Total
	}
	return counts, nil
}
