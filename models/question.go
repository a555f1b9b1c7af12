package models

import (
	"gorm.io/gorm"
)

const (
	QuestionStatusPending  = "pending"
	QuestionStatusApproved = "approved"
	QuestionStatusRejected = "rejected"
)

// Question enters the rotation only once a moderator moves it from pending
// to approved. pending is the only non-terminal status; approved and
// rejected can only be re-set by repeating the same moderation call.
type Question struct {
	gorm.Model
	Emoji    string  `gorm:"not null" json:"emoji"`
	Text     string  `gorm:"not null;type:text" json:"text"`
	Status   string  `gorm:"type:varchar(10);not null;default:pending" json:"status"`
	IsSafe   bool    `gorm:"default:false" json:"is_safe"`
	IsGlobal bool    `gorm:"default:false" json:"is_global"`
	CircleID *uint   `json:"circle_id"`
	Circle   *Circle `json:"circle,omitempty" gorm:"foreignKey:CircleID"`
	AuthorID uint    `gorm:"not null" json:"author_id"`
	Author   User    `json:"author" gorm:"foreignKey:AuthorID"`

	// A question can count in multiple categories, some positive, some
	// negative; the leaderboard scores answers through these links.
	PositiveCategories []Category `json:"positive_categories" gorm:"many2many:question_positive_categories"`
	NegativeCategories []Category `json:"negative_categories" gorm:"many2many:question_negative_categories"`
}
