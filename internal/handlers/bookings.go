package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/events"
	"github.com/sortie-unique/agency-api/internal/models"
	"github.com/sortie-unique/agency-api/internal/notifier"
	"github.com/sortie-unique/agency-api/internal/pricing"
	"gorm.io/gorm"
)

type BookingHandler struct {
	db          *gorm.DB
	validator   *pricing.Validator
	publisher   *events.Publisher
	subscriber  message.Subscriber
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewBookingHandler(
	db *gorm.DB,
	validator *pricing.Validator,
	publisher *events.Publisher,
	subscriber message.Subscriber,
	n notifier.Notifier,
	authHandler *auth.AuthHandler,
) *BookingHandler {
	return &BookingHandler{
		db:          db,
		validator:   validator,
		publisher:   publisher,
		subscriber:  subscriber,
		notifier:    n,
		authHandler: authHandler,
	}
}

type QuoteInput struct {
	Body struct {
		TripID     uint   `json:"trip_id" required:"true"`
		People     int    `json:"people" minimum:"1" required:"true"`
		CouponCode string `json:"coupon_code" required:"false"`
	}
}

type QuoteOutput struct {
	Body pricing.Quote
}

// HandleQuote is the price panel of the booking form: trip price times party
// size, minus an optional validated coupon.
func (h *BookingHandler) HandleQuote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	var trip models.Trip
	if err := h.db.WithContext(ctx).Where("is_available = ?", true).First(&trip, input.Body.TripID).Error; err != nil {
		return nil, huma.Error404NotFound("Trip not found")
	}

	discount := 0.0
	if input.Body.CouponCode != "" {
		coupon, err := h.validator.Validate(ctx, input.Body.CouponCode, time.Now())
		if err != nil {
			if pricing.IsRejection(err) {
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			return nil, huma.Error500InternalServerError("Failed to validate coupon")
		}
		discount = coupon.Discount
	}

	return &QuoteOutput{Body: pricing.NewQuote(trip.Price, input.Body.People, discount)}, nil
}

type SubmitBookingInput struct {
	Body struct {
		Name       string `json:"name" required:"true" doc:"Requester name"`
		Phone      string `json:"phone" required:"true" doc:"Requester phone"`
		Email      string `json:"email" required:"false"`
		TripID     uint   `json:"trip_id" required:"true"`
		People     int    `json:"people" minimum:"1" required:"true"`
		Notes      string `json:"notes" required:"false"`
		CouponCode string `json:"coupon_code" required:"false"`
	}
}

type SubmitBookingOutput struct {
	Body struct {
		Booking models.Booking `json:"booking"`
		Quote   pricing.Quote  `json:"quote"`
		Message string         `json:"message"`
	}
}

// HandleSubmit persists a public booking request. Status is always pending;
// only the admin edit handler can change it. A coupon is re-validated here
// and its discount frozen into the record, so later coupon edits do not
// rewrite history.
func (h *BookingHandler) HandleSubmit(ctx context.Context, input *SubmitBookingInput) (*SubmitBookingOutput, error) {
	var trip models.Trip
	if err := h.db.WithContext(ctx).Where("is_available = ?", true).First(&trip, input.Body.TripID).Error; err != nil {
		return nil, huma.Error422UnprocessableEntity("Selected trip is not available")
	}

	booking := models.Booking{
		Name:   input.Body.Name,
		Phone:  input.Body.Phone,
		Email:  input.Body.Email,
		TripID: trip.ID,
		People: input.Body.People,
		Notes:  input.Body.Notes,
		Status: models.BookingStatusPending,
	}

	if input.Body.CouponCode != "" {
		coupon, err := h.validator.Validate(ctx, input.Body.CouponCode, time.Now())
		if err != nil {
			if pricing.IsRejection(err) {
				logrus.WithFields(logrus.Fields{
					"code":   input.Body.CouponCode,
					"reason": err.Error(),
				}).Warn("SubmitBooking: Coupon rejected")
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			return nil, huma.Error500InternalServerError("Failed to validate coupon")
		}
		booking.CouponCode = &coupon.Code
		booking.Discount = coupon.Discount
	}

	if err := h.db.WithContext(ctx).Create(&booking).Error; err != nil {
		logrus.WithError(err).Error("SubmitBooking: Failed to persist booking")
		return nil, huma.Error500InternalServerError("Failed to save booking: " + err.Error())
	}

	h.publishChange(ctx, events.ActionCreated, booking.ID)

	if h.notifier != nil {
		if err := h.notifier.NotifyBooking(booking, trip); err != nil {
			logrus.WithError(err).Error("SubmitBooking: Failed to send notification")
			// Notification failures never fail the booking.
		}
	}

	res := &SubmitBookingOutput{}
	res.Body.Booking = booking
	res.Body.Quote = pricing.NewQuote(trip.Price, booking.People, booking.Discount)
	res.Body.Message = "We'll contact you within 24 hours to confirm your reservation."
	return res, nil
}

type ListBookingsInput struct {
	auth.AuthInput
}

type ListBookingsOutput struct {
	Body []models.Booking
}

func (h *BookingHandler) HandleList(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var bookings []models.Booking
	if err := h.db.WithContext(ctx).Order("created_at desc").Find(&bookings).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load bookings")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return &ListBookingsOutput{Body: bookings}, nil
}

type UpdateBookingInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Name   string `json:"name" required:"true"`
		Phone  string `json:"phone" required:"true"`
		Email  string `json:"email" required:"false"`
		TripID uint   `json:"trip_id" required:"true"`
		People int    `json:"people" minimum:"1" required:"true"`
		Notes  string `json:"notes" required:"false"`
		Status string `json:"status" enum:"pending,confirmed" required:"true"`
	}
}

type UpdateBookingOutput struct {
	Body models.Booking
}

func (h *BookingHandler) HandleUpdate(ctx context.Context, input *UpdateBookingInput) (*UpdateBookingOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := h.db.WithContext(ctx).First(&booking, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Booking not found")
	}

	booking.Name = input.Body.Name
	booking.Phone = input.Body.Phone
	booking.Email = input.Body.Email
	booking.TripID = input.Body.TripID
	booking.People = input.Body.People
	booking.Notes = input.Body.Notes
	booking.Status = input.Body.Status

	if err := h.db.WithContext(ctx).Save(&booking).Error; err != nil {
		logrus.WithError(err).Error("UpdateBooking: Failed to update booking")
		return nil, huma.Error500InternalServerError("Failed to update booking: " + err.Error())
	}

	h.publishChange(ctx, events.ActionUpdated, booking.ID)

	return &UpdateBookingOutput{Body: booking}, nil
}

type DeleteBookingInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *BookingHandler) HandleDelete(ctx context.Context, input *DeleteBookingInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Delete(&models.Booking{}, input.ID).Error; err != nil {
		logrus.WithError(err).Error("DeleteBooking: Failed to delete booking")
		return nil, huma.Error500InternalServerError("Failed to delete booking")
	}

	h.publishChange(ctx, events.ActionDeleted, input.ID)

	return nil, nil
}

func (h *BookingHandler) publishChange(ctx context.Context, action string, id uint) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishBookingChange(ctx, events.BookingChange{Action: action, BookingID: id}); err != nil {
		logrus.WithError(err).Error("Failed to publish booking change")
	}
}

// csvHeader matches the spreadsheet the agency has always imported. Pickup
// was never collected by the booking form and stays empty.
var csvHeader = []string{"ID", "Name", "Email", "Phone", "Trip", "People", "Pickup", "Date", "Status"}

// HandleExportCSV streams the booking list as CSV. Fields go through
// encoding/csv so embedded commas and quotes stay in their columns.
func (h *BookingHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	var bookings []models.Booking
	if err := h.db.WithContext(r.Context()).Order("created_at desc").Find(&bookings).Error; err != nil {
		logrus.WithError(err).Error("ExportCSV: Failed to load bookings")
		http.Error(w, "Failed to load bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)

	writer := csv.NewWriter(w)
	writer.Write(csvHeader)
	for _, b := range bookings {
		writer.Write([]string{
			fmt.Sprint(b.ID),
			b.Name,
			b.Email,
			b.Phone,
			fmt.Sprint(b.TripID),
			fmt.Sprint(b.People),
			"",
			b.CreatedAt.Format("2006-01-02"),
			b.Status,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logrus.WithError(err).Error("ExportCSV: Failed to write CSV")
	}
}

type StreamBookingsInput struct {
	auth.AuthInput
}

// HandleStream pushes one SSE event per booking change. Clients re-fetch the
// full list on every event, so a dropped or duplicated message costs only a
// redundant read.
func (h *BookingHandler) HandleStream(ctx context.Context, input *StreamBookingsInput, send sse.Sender) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		send.Data(events.BookingChange{Action: "unauthorized"})
		return
	}
	if h.subscriber == nil {
		return
	}

	messages, err := h.subscriber.Subscribe(ctx, events.TopicBookingsChanged)
	if err != nil {
		logrus.WithError(err).Error("StreamBookings: Failed to subscribe")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			change, err := events.UnmarshalBookingChange(msg)
			msg.Ack()
			if err != nil {
				logrus.WithError(err).Error("StreamBookings: Bad change message")
				continue
			}
			if err := send.Data(change); err != nil {
				return
			}
		}
	}
}
