package models

import (
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
)

// Booking is a customer's request to reserve a trip. TripID is a soft
// reference: nothing cascades when the trip is deleted. CouponCode and
// Discount are both recorded at creation time so the effective discount
// stays reconstructible after the coupon is edited or deleted.
type Booking struct {
	gorm.Model
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	TripID     uint    `json:"trip_id" gorm:"index"`
	People     int     `json:"people"`
	Notes      string  `json:"notes"`
	Status     string  `json:"status"`
	CouponCode *string `json:"coupon_code"`
	Discount   float64 `json:"discount"` // frozen percentage, 0 when no coupon
}
