package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeAnswer           = "answer"
	NotificationTypeQuestionApproval = "questionApproval"
)

// Notification is created whenever an answer is recorded or a question is
// moderated. Only the two status flags and ReadDate ever change after
// creation; revealing the content is gated behind a paid action.
type Notification struct {
	gorm.Model
	ActionID    *uint       `json:"action_id"`
	Action      *UserAnswer `json:"action,omitempty" gorm:"foreignKey:ActionID"`
	QuestionID  *uint       `json:"question_id"`
	SenderID    uint        `gorm:"not null" json:"sender_id"`
	Sender      User        `json:"sender" gorm:"foreignKey:SenderID"`
	RecipientID uint        `gorm:"not null;index" json:"recipient_id"`
	Type        string      `gorm:"type:varchar(20);not null" json:"type"`

	StatusRead     bool       `gorm:"default:false" json:"status_read"`
	StatusRevealed bool       `gorm:"default:false" json:"status_revealed"`
	ReadDate       *time.Time `json:"read_date"`
}
