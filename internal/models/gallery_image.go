package models

import (
	"gorm.io/gorm"
)

// GalleryImage is one uploaded image. At most one row may have IsFeatured
// set; the gallery handler enforces that inside a single transaction.
type GalleryImage struct {
	gorm.Model
	Title      string `json:"title"`
	ImageURL   string `json:"image_url"`
	ObjectPath string `json:"-"` // storage key, kept for file removal on delete
	IsFeatured bool   `json:"is_featured"`
}
