package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/notifier"
)

type SheetsHandler struct {
	forwarder   *notifier.SheetsForwarder
	authHandler *auth.AuthHandler
}

func NewSheetsHandler(forwarder *notifier.SheetsForwarder, authHandler *auth.AuthHandler) *SheetsHandler {
	return &SheetsHandler{forwarder: forwarder, authHandler: authHandler}
}

type SendRowInput struct {
	auth.AuthInput
	Body struct {
		Name    string `json:"name" required:"true"`
		Email   string `json:"email" required:"true"`
		Message string `json:"message" required:"false"`
	}
}

type SendRowOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *SheetsHandler) HandleSendRow(ctx context.Context, input *SendRowInput) (*SendRowOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if !h.forwarder.Configured() {
		return nil, huma.Error503ServiceUnavailable("Sheets webhook is not configured")
	}

	row := map[string]any{
		"name":      input.Body.Name,
		"email":     input.Body.Email,
		"message":   input.Body.Message,
		"timestamp": time.Now().Format(time.RFC3339),
		"source":    "Sortie Unique Admin Dashboard",
	}
	if err := h.forwarder.SendRow(ctx, row); err != nil {
		logrus.WithError(err).Error("SendRow: Failed to forward row to sheets webhook")
		return nil, huma.Error502BadGateway("Failed to send data to Google Sheets")
	}

	res := &SendRowOutput{}
	res.Body.Message = "Data sent to Google Sheets"
	return res, nil
}
