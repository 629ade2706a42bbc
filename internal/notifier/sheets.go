package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SheetsForwarder posts rows to a Google Sheets webhook (an Apps Script
// deployment). The admin dashboard uses it to push ad-hoc contact rows into a
// spreadsheet.
type SheetsForwarder struct {
	webhookURL string
	client     *http.Client
}

func NewSheetsForwarder(webhookURL string) *SheetsForwarder {
	return &SheetsForwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *SheetsForwarder) Configured() bool {
	return f.webhookURL != ""
}

func (f *SheetsForwarder) SendRow(ctx context.Context, row map[string]any) error {
	if f.webhookURL == "" {
		return fmt.Errorf("sheets webhook URL is not configured")
	}

	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal sheets row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sheets request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sheets row: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sheets webhook returned status %d", resp.StatusCode)
	}
	return nil
}
