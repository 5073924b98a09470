package models

import "gorm.io/gorm"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Login          string       `json:"login" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email          string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password       string       `json:"-"`
	SocialLogin    bool         `json:"socialLogin"`
	SocialProvider string       `json:"socialProvider"`
	Role           string       `json:"role" gorm:"type:varchar(20);default:USER;index"` // USER, ADMIN
	Attractions    []Attraction `json:"attractions,omitempty" gorm:"foreignKey:CreatorID;references:ID"`
	Reviews        []Review     `json:"reviews,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}
