package models

import "gorm.io/gorm"

const RoleAdmin = "admin"

type User struct {
	gorm.Model

	Username string `gorm:"column:username;uniqueIndex"` // login name, globally unique
	Name     string `gorm:"column:name"`                 // display name shown as post author
	Email    string `gorm:"column:email"`
	Role     string `gorm:"column:role;default:admin"` // single-role model for now

	Password string `gorm:"column:password" json:"-"` // argon2id hash, never serialized
}
