package models

import (
	"time"

	"gorm.io/gorm"
)

type Coupon struct {
	gorm.Model
	Code      string     `json:"code" gorm:"uniqueIndex"`
	Discount  float64    `json:"discount"` // percentage, 0-100
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Expired reports whether the coupon carries an expiry strictly before now.
// Coupons without an expiry never expire.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
