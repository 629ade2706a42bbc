package models

import (
	"gorm.io/gorm"
)

const RoleAdmin = "admin"

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Role         string
	DiscordID    string `gorm:"index"`
	Username     string
	Avatar       string
}
