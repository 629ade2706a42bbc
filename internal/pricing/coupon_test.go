package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sortie-unique/agency-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCouponDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.Coupon{})
	return db
}

func TestValidate(t *testing.T) {
	db := newCouponDB(t)
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	db.Create(&models.Coupon{Code: "SAVE20", Discount: 20, IsActive: true})
	db.Create(&models.Coupon{Code: "OLD10", Discount: 10, IsActive: true, ExpiresAt: &past})
	db.Create(&models.Coupon{Code: "SOON15", Discount: 15, IsActive: true, ExpiresAt: &future})
	db.Create(&models.Coupon{Code: "DISABLED5", Discount: 5, IsActive: false})

	v := NewValidator(db, false)
	ctx := context.Background()

	t.Run("EmptyCode", func(t *testing.T) {
		if _, err := v.Validate(ctx, "   ", now); !errors.Is(err, ErrEmptyCode) {
			t.Errorf("expected ErrEmptyCode, got %v", err)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		coupon, err := v.Validate(ctx, "SAVE20", now)
		if err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
		if coupon.Discount != 20 {
			t.Errorf("expected discount 20, got %v", coupon.Discount)
		}
	})

	t.Run("ValidWithFutureExpiry", func(t *testing.T) {
		if _, err := v.Validate(ctx, "SOON15", now); err != nil {
			t.Errorf("expected future expiry to pass, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		if _, err := v.Validate(ctx, "OLD10", now); !errors.Is(err, ErrCouponExpired) {
			t.Errorf("expected ErrCouponExpired, got %v", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := v.Validate(ctx, "NOPE", now); !errors.Is(err, ErrCouponNotFound) {
			t.Errorf("expected ErrCouponNotFound, got %v", err)
		}
	})

	t.Run("InactiveHiddenByDefault", func(t *testing.T) {
		if _, err := v.Validate(ctx, "DISABLED5", now); !errors.Is(err, ErrCouponNotFound) {
			t.Errorf("expected inactive coupon to surface as not found, got %v", err)
		}
	})

	t.Run("InactiveReportedWhenConfigured", func(t *testing.T) {
		reporting := NewValidator(db, true)
		if _, err := reporting.Validate(ctx, "DISABLED5", now); !errors.Is(err, ErrCouponInactive) {
			t.Errorf("expected ErrCouponInactive, got %v", err)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first, err1 := v.Validate(ctx, "SAVE20", now)
		second, err2 := v.Validate(ctx, "SAVE20", now)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v, %v", err1, err2)
		}
		if first.Discount != second.Discount || first.Code != second.Code {
			t.Error("repeated validation returned different results")
		}
	})
}
