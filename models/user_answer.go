package models

import (
	"gorm.io/gorm"
)

// UserAnswer is an append-only fact: created exactly once per answer
// submission and never mutated. The daily counter on User is recomputed
// from these rows, not the other way around.
type UserAnswer struct {
	gorm.Model
	QuestionID     uint     `gorm:"not null" json:"question_id"`
	Question       Question `json:"question" gorm:"foreignKey:QuestionID"`
	UserAskedID    uint     `gorm:"not null;index" json:"user_asked_id"`
	UserAsked      User     `json:"user_asked" gorm:"foreignKey:UserAskedID"`
	UserAnsweredID uint     `gorm:"not null;index" json:"user_answered_id"`
	UserAnswered   User     `json:"user_answered" gorm:"foreignKey:UserAnsweredID"`
	UsersIgnored   []User   `json:"users_ignored" gorm:"many2many:user_answer_ignored"`
}
