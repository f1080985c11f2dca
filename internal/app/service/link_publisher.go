package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sifan077/shortlink/internal/app/model"
)

// jetStreamPublisher is the slice of nats.JetStreamContext the publisher needs.
type jetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// LinkPublisher publishes link created events to NATS JetStream
type LinkPublisher struct {
	js  jetStreamPublisher
	now func() time.Time
}

// NewLinkPublisher creates a new link event publisher
func NewLinkPublisher(js jetStreamPublisher) *LinkPublisher {
	return &LinkPublisher{js: js, now: time.Now}
}

// PublishLinkCreated publishes the event for a persisted link.
func (p *LinkPublisher) PublishLinkCreated(link *model.Link) error {
	if link == nil {
		return errors.New("publish link created: nil link")
	}

	event := model.LinkCreatedEvent{
		ID:        uuid.New().String(),
		LinkID:    link.ID,
		ShortCode: link.ShortCode,
		OwnerID:   link.OwnerID,
		Timestamp: p.now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// The event ID doubles as the dedup key so a retried publish lands once.
	if _, err := p.js.Publish(model.LinkStreamSubject, data, nats.MsgId(event.ID)); err != nil {
		return fmt.Errorf("publish link created: %w", err)
	}
	return nil
}

// EnsureLinkStream creates the links stream if it does not exist yet.
func EnsureLinkStream(js nats.JetStreamManager) error {
	_, err := js.StreamInfo(model.LinkStreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     model.LinkStreamName,
		Subjects: []string{model.LinkStreamSubject},
		MaxBytes: model.LinkStreamMaxBytes,
		MaxAge:   model.LinkStreamMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}
