package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleSuperadmin = "superadmin"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Name      string         `gorm:"not null" json:"name"`
	Surname   string         `json:"surname"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Phone     string         `json:"phone"`
	Password  string         `gorm:"not null" json:"-"` // Don't expose password hash in JSON
	Gender    string         `gorm:"type:varchar(10);not null" json:"gender"`
	Role      string         `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Instagram string         `json:"instagram"`
	Tiktok    string         `json:"tiktok"`
	Snapchat  string         `json:"snapchat"`
	Birthday  *time.Time     `json:"birthday"`
	Avatar    string         `json:"avatar"`

	// Economy and daily-activity state. Money never goes below zero; every
	// debit is a conditional update against the current balance.
	Money                  int64      `gorm:"not null;default:0" json:"money"`
	DailyQuestionsAnswered int        `gorm:"not null;default:0" json:"daily_questions_answered"`
	LastAnsweredDate       *time.Time `json:"last_answered_date"`

	SafeMode bool `gorm:"default:false" json:"safe_mode"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	Circles []Circle `json:"circles" gorm:"many2many:circle_members"`
}
