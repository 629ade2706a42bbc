package models

import (
	"gorm.io/gorm"
)

type Trip struct {
	gorm.Model
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Destination string   `json:"destination"`
	Region      string   `json:"region"`
	Duration    string   `json:"duration"` // free text, e.g. "3 days / 2 nights"
	MaxPeople   int      `json:"max_people"`
	Price       float64  `json:"price"` // currency-agnostic units
	Image       string   `json:"image"` // URL to image
	Features    []string `json:"features" gorm:"serializer:json"`
	IsAvailable bool     `json:"is_available"`
}
