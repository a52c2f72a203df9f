package whoop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	signatureHeader          = "X-WHOOP-Signature"
	signatureTimestampHeader = "X-WHOOP-Signature-Timestamp"

	maxWebhookBodySize = 1 << 20
)

// EventType identifies what changed in a webhook notification.
type EventType string

const (
	EventWorkoutUpdated  EventType = "workout.updated"
	EventWorkoutDeleted  EventType = "workout.deleted"
	EventSleepUpdated    EventType = "sleep.updated"
	EventSleepDeleted    EventType = "sleep.deleted"
	EventRecoveryUpdated EventType = "recovery.updated"
	EventRecoveryDeleted EventType = "recovery.deleted"
)

// WebhookEvent represents a "Skinny Webhook" payload from WHOOP.
// ID is the UUID of the sleep or workout; recovery events carry the sleep UUID.
type WebhookEvent struct {
	UserID  int64     `json:"user_id"`
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	TraceID string    `json:"trace_id"`
}

// ParseWebhook reads and verifies an incoming HTTP request from a WHOOP Webhook.
// The X-WHOOP-Signature header must equal base64(HMAC-SHA256(secret, timestamp+body)),
// where timestamp is the X-WHOOP-Signature-Timestamp header.
// Ensure your HTTP handler does NOT consume `r.Body` before passing it to this function.
func ParseWebhook(r *http.Request, secret string) (*WebhookEvent, error) {
	if r.Method != http.MethodPost {
		return nil, errors.New("webhook must be a POST request")
	}

	headerSig := r.Header.Get(signatureHeader)
	if headerSig == "" {
		return nil, fmt.Errorf("missing %s header", signatureHeader)
	}
	timestamp := r.Header.Get(signatureTimestampHeader)
	if timestamp == "" {
		return nil, fmt.Errorf("missing %s header", signatureTimestampHeader)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook body: %w", err)
	}

	expectedSig := SignWebhook(timestamp, body, secret)
	if !hmac.Equal([]byte(headerSig), []byte(expectedSig)) {
		return nil, errors.New("invalid webhook signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, &SerializationError{Err: err}
	}

	return &event, nil
}

// SignWebhook computes the signature WHOOP sends for a webhook body.
func SignWebhook(timestamp string, body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
