package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ContributionEvent is broadcast after a registry write reaches a terminal
// state, for the websocket feed and any external subscribers.
type ContributionEvent struct {
	Kind           string    `json:"kind"`
	ContributionID *uint64   `json:"contribution_id,omitempty"`
	TxHash         string    `json:"tx_hash"`
	Confirmed      bool      `json:"confirmed"`
	Verdict        uint8     `json:"verdict,omitempty"`
	Title          string    `json:"title,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	eventKindSubmitted = "contribution_submitted"
	eventKindResolved  = "contribution_resolved"
)

// EventPublisher publishes contribution events over NATS. A nil connection
// turns publishing into a no-op so the API runs without a broker.
type EventPublisher struct {
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher builds a publisher for the given subject.
func NewEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *EventPublisher {
	if subject == "" {
		subject = "pol.contributions"
	}
	return &EventPublisher{
		nats:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the subject events are published on.
func (p *EventPublisher) Subject() string {
	if p == nil {
		return ""
	}
	return p.subject
}

// Conn exposes the underlying connection for subscribers; nil when the
// broker is not configured.
func (p *EventPublisher) Conn() *nats.Conn {
	if p == nil {
		return nil
	}
	return p.nats
}

// Publish emits the event; failures are logged, never surfaced, because the
// on-chain write already succeeded by the time events fire.
func (p *EventPublisher) Publish(event ContributionEvent) {
	if p == nil || p.nats == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("marshal contribution event")
		return
	}
	if err := p.nats.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", p.subject).Msg("publish contribution event")
	}
}
