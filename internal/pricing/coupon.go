package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sortie-unique/agency-api/internal/models"
	"gorm.io/gorm"
)

// Rejection reasons for coupon validation. The closed set is part of the
// public API contract, so the constants carry the wire values.
var (
	ErrEmptyCode      = errors.New("empty_code")
	ErrCouponNotFound = errors.New("not_found")
	ErrCouponInactive = errors.New("inactive")
	ErrCouponExpired  = errors.New("expired")
)

// Validator resolves a coupon code against the coupon table.
//
// When ReportInactive is false a disabled coupon is indistinguishable from a
// nonexistent one: the lookup filters on is_active and both come back as
// ErrCouponNotFound. That hides disabled codes from the public form. Enabling
// the flag makes the validator look the code up without the filter and report
// ErrCouponInactive, which support-facing deployments prefer.
type Validator struct {
	db             *gorm.DB
	ReportInactive bool
}

func NewValidator(db *gorm.DB, reportInactive bool) *Validator {
	return &Validator{db: db, ReportInactive: reportInactive}
}

// Validate is a pure function of (code, coupon table, now): no writes, and
// calling it twice without a table mutation in between yields the same result.
func (v *Validator) Validate(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrEmptyCode
	}

	var coupon models.Coupon
	query := v.db.WithContext(ctx).Where("code = ?", code)
	if !v.ReportInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if v.ReportInactive && !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	if coupon.Expired(now) {
		return nil, ErrCouponExpired
	}

	return &coupon, nil
}

// IsRejection reports whether err is one of the closed coupon rejection
// reasons rather than a storage failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmptyCode) ||
		errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponInactive) ||
		errors.Is(err, ErrCouponExpired)
}
