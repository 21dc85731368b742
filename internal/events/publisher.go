package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"reelforge/internal/model"
)

// Subjects trend change events are published on.
const (
	SubjectTrendCreated = "trend.created"
	SubjectTrendUpdated = "trend.updated"
	SubjectTrendDeleted = "trend.deleted"
)

// EventPublisher announces trend changes to other services.
type EventPublisher interface {
	PublishTrendChanged(subject string, trend *model.Trend) error
	PublishTrendDeleted(trendID string) error
	Close()
}

// TrendEvent is the payload of every trend.* message.
type TrendEvent struct {
	EventType string    `json:"event_type"`
	TrendID   string    `json:"trend_id"`
	Title     string    `json:"title,omitempty"`
	At        time.Time `json:"at"`
}

// NatsPublisher publishes trend events on a NATS connection.
type NatsPublisher struct {
	conn *nats.Conn
	log  logrus.FieldLogger
}

// NewNatsPublisher connects to natsURL. The connection reconnects on its own.
func NewNatsPublisher(natsURL string, log logrus.FieldLogger) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("reelforge-api"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NatsPublisher{conn: nc, log: log}, nil
}

// NewTrendEvent builds the payload for subject.
func NewTrendEvent(subject, trendID, title string, at time.Time) TrendEvent {
	return TrendEvent{EventType: subject, TrendID: trendID, Title: title, At: at.UTC()}
}

func (p *NatsPublisher) PublishTrendChanged(subject string, trend *model.Trend) error {
	return p.publish(subject, NewTrendEvent(subject, trend.ID, trend.Title, time.Now()))
}

func (p *NatsPublisher) PublishTrendDeleted(trendID string) error {
	return p.publish(SubjectTrendDeleted, NewTrendEvent(SubjectTrendDeleted, trendID, "", time.Now()))
}

func (p *NatsPublisher) publish(subject string, event TrendEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}
	if err := p.conn.Publish(subject, eventJSON); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.log.WithFields(logrus.Fields{"subject": subject, "trend_id": event.TrendID}).Debug("published event")
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishTrendChanged(string, *model.Trend) error { return nil }
func (NoopPublisher) PublishTrendDeleted(string) error              { return nil }
func (NoopPublisher) Close()                                        {}
