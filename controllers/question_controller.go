package controllers

import (
	"errors"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/circleup/api-go/models"
	"github.com/circleup/api-go/types"
	"github.com/circleup/api-go/utils"
)

type QuestionController struct {
	DB *gorm.DB
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{DB: db}
}

// emojiPattern covers the emoji blocks the clients send: pictographs,
// transport, supplemental symbols, dingbats, misc symbols and flags.
var emojiPattern = regexp.MustCompile(`^[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{1FA70}-\x{1FAFF}\x{2600}-\x{27BF}\x{1F1E6}-\x{1F1FF}\x{FE0F}\x{200D}]+$`)

// CreateQuestion validates every field before answering so the caller sees
// all problems at once, checks the text is unique within its visibility
// scope, and stores the question in pending state.
func (qc *QuestionController) CreateQuestion(c *gin.Context) {
	claims := utils.GetUser(c)

	var input struct {
		Emoji              string `json:"emoji"`
		Text               string `json:"text"`
		PositiveCategories []uint `json:"positiveCategories"`
		NegativeCategories []uint `json:"negativeCategories"`
		IsSafe             *bool  `json:"isSafe"`
		IsGlobal           *bool  `json:"isGlobal"`
		CircleID           *uint  `json:"circleId"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(input.Text)

	var problems []string
	if input.Emoji == "" || !emojiPattern.MatchString(input.Emoji) {
		problems = append(problems, "emoji must be a valid emoji")
	}
	if text == "" {
		problems = append(problems, "question text must not be empty")
	}
	if input.IsSafe == nil {
		problems = append(problems, "isSafe must be provided")
	}
	if input.IsGlobal == nil {
		problems = append(problems, "isGlobal must be provided")
	}
	isGlobal := input.IsGlobal != nil && *input.IsGlobal
	if input.IsGlobal != nil && !isGlobal && input.CircleID == nil {
		problems = append(problems, "circleId is required for non-global questions")
	}
	if input.CircleID != nil {
		var circle models.Circle
		if err := qc.DB.First(&circle, *input.CircleID).Error; err != nil {
			problems = append(problems, "circle does not exist")
		}
	}
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.Join(problems, "; ")})
		return
	}

	// De-duplicate within the visibility scope: same text twice in one
	// circle, or twice globally, is a conflict. The same text in two
	// different circles is fine.
	dupQuery := qc.DB.Model(&models.Question{}).Where("text = ?", text)
	if isGlobal {
		dupQuery = dupQuery.Where("is_global = ?", true)
	} else {
		dupQuery = dupQuery.Where("is_global = ? AND circle_id = ?", false, *input.CircleID)
	}
	var duplicates int64
	if err := dupQuery.Count(&duplicates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for duplicates"})
		return
	}
	if duplicates > 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "An identical question already exists in this scope"})
		return
	}

	question := models.Question{
		Emoji:    input.Emoji,
		Text:     text,
		Status:   models.QuestionStatusPending,
		IsSafe:   *input.IsSafe,
		IsGlobal: isGlobal,
		AuthorID: claims.UserID,
	}
	if !isGlobal {
		question.CircleID = input.CircleID
	}

	if len(input.PositiveCategories) > 0 {
		var cats []models.Category
		qc.DB.Find(&cats, input.PositiveCategories)
		question.PositiveCategories = cats
	}
	if len(input.NegativeCategories) > 0 {
		var cats []models.Category
		qc.DB.Find(&cats, input.NegativeCategories)
		question.NegativeCategories = cats
	}

	if err := qc.DB.Create(&question).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ValidateQuestion applies a moderation decision. Circle questions need the
// caller in the circle's admin set; global questions have no owning circle
// and are moderated by superadmins only. Repeating a decision on an already
// moderated question just re-writes the same state.
func (qc *QuestionController) ValidateQuestion(c *gin.Context) {
	claims := utils.GetUser(c)
	questionID := c.Param("questionId")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != models.QuestionStatusApproved && input.Status != models.QuestionStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be either 'approved' or 'rejected'"})
		return
	}

	var question models.Question
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	if question.IsGlobal {
		if claims.Role != models.RoleSuperadmin {
			c.JSON(http.StatusForbidden, gin.H{"msg": "Global questions can only be moderated by a superadmin"})
			return
		}
	} else {
		if question.CircleID == nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Circle not found"})
			return
		}
		var circle models.Circle
		if err := qc.DB.Preload("Admins").First(&circle, *question.CircleID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Circle not found"})
			return
		}
		isAdmin := false
		for _, admin := range circle.Admins {
			if admin.ID == claims.UserID {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"msg": "User is not an admin of this circle"})
			return
		}
	}

	if err := qc.DB.Model(&question).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update question"})
		return
	}

	// Tell the author what happened to their submission.
	notification := models.Notification{
		QuestionID:  &question.ID,
		SenderID:    claims.UserID,
		RecipientID: question.AuthorID,
		Type:        models.NotificationTypeQuestionApproval,
	}
	if err := qc.DB.Create(&notification).Error; err != nil {
		// The moderation itself succeeded; a missing notification is a
		// recoverable inconsistency, not a failure of the request.
		log.Printf("failed to create moderation notification for question %d: %v", question.ID, err)
	}

	c.JSON(http.StatusOK, question)
}

// GetRandomQuestion picks uniformly among approved questions visible to the
// caller: global ones plus those of the caller's own circles. An empty pool
// is a valid outcome, reported distinctly from a server failure.
func (qc *QuestionController) GetRandomQuestion(c *gin.Context) {
	claims := utils.GetUser(c)

	var user models.User
	if err := qc.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	circleIDs := make([]uint, 0, len(user.Circles))
	for _, circle := range user.Circles {
		circleIDs = append(circleIDs, circle.ID)
	}

	query := qc.DB.Where("status = ?", models.QuestionStatusApproved).
		Where("is_global = ? OR circle_id IN ?", true, circleIDs)
	if user.SafeMode {
		query = query.Where("is_safe = ?", true)
	}

	var question models.Question
	if err := query.Order("RANDOM()").First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "No eligible question found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch question"})
		return
	}

	c.JSON(http.StatusOK, question)
}

// GetAnswerOptions returns up to four candidate users the question could be
// about. For a global question the effective circle is one of the caller's
// own, picked at random; the caller is never a candidate.
func (qc *QuestionController) GetAnswerOptions(c *gin.Context) {
	claims := utils.GetUser(c)
	questionID := c.Param("questionId")

	var question models.Question
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	var circleID uint
	if question.IsGlobal {
		var user models.User
		if err := qc.DB.Preload("Circles").First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		if len(user.Circles) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User does not belong to any circle"})
			return
		}
		circleID = user.Circles[rand.Intn(len(user.Circles))].ID
	} else {
		if question.CircleID == nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Circle not found"})
			return
		}
		circleID = *question.CircleID
	}

	var pool []models.User
	err := qc.DB.
		Joins("JOIN circle_members cm ON cm.user_id = users.id").
		Where("cm.circle_id = ? AND users.id <> ? AND users.is_active = ?", circleID, claims.UserID, true).
		Find(&pool).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch answer options"})
		return
	}

	options := pickAnswerCandidates(pool, types.ANSWER_OPTION_COUNT)
	c.JSON(http.StatusOK, options)
}

// pickAnswerCandidates samples up to limit users from the pool without
// repetition. When the pool spans more than one gender, one user from each
// of the two most common genders is guaranteed a slot before the rest are
// filled at random. Pools at or below the limit are returned whole.
func pickAnswerCandidates(pool []models.User, limit int) []models.User {
	shuffled := make([]models.User, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) <= limit {
		return shuffled
	}

	counts := map[string]int{}
	for _, u := range shuffled {
		counts[u.Gender]++
	}

	var topGenders []string
	for gender := range counts {
		topGenders = append(topGenders, gender)
	}
	// Order genders by frequency, keep the two most common.
	for i := 0; i < len(topGenders); i++ {
		for j := i + 1; j < len(topGenders); j++ {
			if counts[topGenders[j]] > counts[topGenders[i]] {
				topGenders[i], topGenders[j] = topGenders[j], topGenders[i]
			}
		}
	}
	if len(topGenders) > 2 {
		topGenders = topGenders[:2]
	}

	picked := make([]models.User, 0, limit)
	used := map[uint]bool{}

	if len(topGenders) == 2 {
		// The pool is already shuffled, so the first hit per gender is a
		// uniform pick within that gender.
		for _, gender := range topGenders {
			for _, u := range shuffled {
				if u.Gender == gender && !used[u.ID] {
					picked = append(picked, u)
					used[u.ID] = true
					break
				}
			}
		}
	}

	for _, u := range shuffled {
		if len(picked) >= limit {
			break
		}
		if !used[u.ID] {
			picked = append(picked, u)
			used[u.ID] = true
		}
	}

	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked
}
