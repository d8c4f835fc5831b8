// Package elevenlabs implements the subset of the ElevenLabs platform API
// this service consumes: webhook signature verification and the post-call
// transcription event payload.
package elevenlabs

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "ElevenLabs-Signature"

// EventTypePostCallTranscription is the only event type this service acts on.
const EventTypePostCallTranscription = "post_call_transcription"

// signatures older than this are rejected to limit replay
const signatureTolerance = 30 * time.Minute

var (
	ErrMissingSignature = errors.New("elevenlabs: missing signature header")
	ErrInvalidSignature = errors.New("elevenlabs: invalid signature")
	ErrStaleTimestamp   = errors.New("elevenlabs: signature timestamp outside tolerance")
)

// CollectedField is one value extracted by the platform's data-collection
// feature from a finished conversation.
type CollectedField struct {
	Value string `json:"value"`
}

// DataCollectionResults are the structured fields the voice agent extracted:
// customer name, order type, and a JSON-encoded item list.
type DataCollectionResults struct {
	Name      *CollectedField `json:"name"`
	OrderType *CollectedField `json:"orderType"`
	Items     *CollectedField `json:"items"`
}

type Analysis struct {
	DataCollectionResults *DataCollectionResults `json:"data_collection_results"`
}

type EventData struct {
	AgentID        string    `json:"agent_id"`
	ConversationID string    `json:"conversation_id"`
	Status         string    `json:"status"`
	Analysis       *Analysis `json:"analysis"`
}

type WebhookEvent struct {
	Type           string    `json:"type"`
	EventTimestamp int64     `json:"event_timestamp"`
	Data           EventData `json:"data"`
}

// ConstructEvent verifies the signature header against the raw body and the
// shared secret, then decodes the event. The header format is
// "t=<unix>,v0=<hex hmac-sha256(secret, t + \".\" + body)>".
func ConstructEvent(body []byte, signatureHeader, secret string) (*WebhookEvent, error) {
	if signatureHeader == "" {
		return nil, ErrMissingSignature
	}

	var ts, sig string
	for _, part := range strings.Split(signatureHeader, ",") {
		switch {
		case strings.HasPrefix(part, "t="):
			ts = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v0="):
			sig = strings.TrimPrefix(part, "v0=")
		}
	}
	if ts == "" || sig == "" {
		return nil, ErrInvalidSignature
	}

	tsSec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if time.Since(time.Unix(tsSec, 0)) > signatureTolerance {
		return nil, ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return nil, ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("elevenlabs: decode event: %w", err)
	}
	return &event, nil
}

// Sign produces a signature header for body at time t. Used by tests and
// local tooling to emit well-formed webhook requests.
func Sign(body []byte, secret string, t time.Time) string {
	ts := strconv.FormatInt(t.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v0=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
