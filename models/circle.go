package models

import (
	"gorm.io/gorm"
)

// Circle scopes question visibility and moderation authority. Membership is
// tracked on the User side (User.Circles); Admins is the moderator set.
type Circle struct {
	gorm.Model
	Name   string `gorm:"unique;not null" json:"name"`
	Admins []User `json:"admins" gorm:"many2many:circle_admins"`
}
