package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/models"
	"github.com/sortie-unique/agency-api/internal/pricing"
	"gorm.io/gorm"
)

type CouponHandler struct {
	db          *gorm.DB
	validator   *pricing.Validator
	authHandler *auth.AuthHandler
}

func NewCouponHandler(db *gorm.DB, validator *pricing.Validator, authHandler *auth.AuthHandler) *CouponHandler {
	return &CouponHandler{db: db, validator: validator, authHandler: authHandler}
}

type ValidateCouponInput struct {
	Body struct {
		Code string `json:"code" doc:"Coupon code, matched exactly as stored"`
	}
}

type ValidateCouponOutput struct {
	Body struct {
		Code     string  `json:"code"`
		Discount float64 `json:"discount"`
	}
}

// HandleValidate is the public coupon check used by the booking form. The
// rejection reason lands in the error message so the form can display it.
func (h *CouponHandler) HandleValidate(ctx context.Context, input *ValidateCouponInput) (*ValidateCouponOutput, error) {
	coupon, err := h.validator.Validate(ctx, input.Body.Code, time.Now())
	if err != nil {
		if pricing.IsRejection(err) {
			logrus.WithFields(logrus.Fields{
				"code":   input.Body.Code,
				"reason": err.Error(),
			}).Warn("ValidateCoupon: Coupon rejected")
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		logrus.WithError(err).Error("ValidateCoupon: Failed to look up coupon")
		return nil, huma.Error500InternalServerError("Failed to validate coupon")
	}

	res := &ValidateCouponOutput{}
	res.Body.Code = coupon.Code
	res.Body.Discount = coupon.Discount
	return res, nil
}

type ListCouponsInput struct {
	auth.AuthInput
}

type ListCouponsOutput struct {
	Body []models.Coupon
}

func (h *CouponHandler) HandleList(ctx context.Context, input *ListCouponsInput) (*ListCouponsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var coupons []models.Coupon
	if err := h.db.WithContext(ctx).Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load coupons")
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	return &ListCouponsOutput{Body: coupons}, nil
}

type CouponFields struct {
	Code      string     `json:"code" required:"true"`
	Discount  float64    `json:"discount" minimum:"0" maximum:"100" required:"true"`
	IsActive  bool       `json:"is_active" required:"false"`
	ExpiresAt *time.Time `json:"expires_at" required:"false"`
}

type CreateCouponInput struct {
	auth.AuthInput
	Body CouponFields
}

type CouponOutput struct {
	Body models.Coupon
}

func (h *CouponHandler) HandleCreate(ctx context.Context, input *CreateCouponInput) (*CouponOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	coupon := models.Coupon{
		Code:      input.Body.Code,
		Discount:  input.Body.Discount,
		IsActive:  input.Body.IsActive,
		ExpiresAt: input.Body.ExpiresAt,
	}

	if err := h.db.WithContext(ctx).Create(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, huma.Error409Conflict("Coupon code already exists")
		}
		logrus.WithError(err).Error("CreateCoupon: Failed to create coupon")
		return nil, huma.Error500InternalServerError("Failed to create coupon: " + err.Error())
	}

	return &CouponOutput{Body: coupon}, nil
}

type UpdateCouponInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body CouponFields
}

func (h *CouponHandler) HandleUpdate(ctx context.Context, input *UpdateCouponInput) (*CouponOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var coupon models.Coupon
	if err := h.db.WithContext(ctx).First(&coupon, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Coupon not found")
	}

	coupon.Code = input.Body.Code
	coupon.Discount = input.Body.Discount
	coupon.IsActive = input.Body.IsActive
	coupon.ExpiresAt = input.Body.ExpiresAt

	if err := h.db.WithContext(ctx).Save(&coupon).Error; err != nil {
		logrus.WithError(err).Error("UpdateCoupon: Failed to update coupon")
		return nil, huma.Error500InternalServerError("Failed to update coupon: " + err.Error())
	}

	return &CouponOutput{Body: coupon}, nil
}

type DeleteCouponInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleDelete removes a coupon. Bookings that already applied it keep both
// the code and the frozen discount, so history is unaffected.
func (h *CouponHandler) HandleDelete(ctx context.Context, input *DeleteCouponInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Delete(&models.Coupon{}, input.ID).Error; err != nil {
		logrus.WithError(err).Error("DeleteCoupon: Failed to delete coupon")
		return nil, huma.Error500InternalServerError("Failed to delete coupon")
	}

	return nil, nil
}
