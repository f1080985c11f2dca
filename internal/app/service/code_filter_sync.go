package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/shortlink/internal/app/model"
	"go.uber.org/zap"
)

type jetStreamSubscriber interface {
	Subscribe(subj string, cb nats.MsgHandler, opts ...nats.SubOpt) (*nats.Subscription, error)
}

// CodeFilterSync feeds codes created by other instances into the local filter.
type CodeFilterSync struct {
	js     jetStreamSubscriber
	filter *CodeFilter
	logger *zap.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

func NewCodeFilterSync(js jetStreamSubscriber, filter *CodeFilter, logger *zap.Logger) *CodeFilterSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CodeFilterSync{js: js, filter: filter, logger: logger}
}

// Start subscribes with an ephemeral push consumer that only sees new events.
// Missed events are harmless: the filter is advisory.
func (s *CodeFilterSync) Start() error {
	sub, err := s.js.Subscribe(model.LinkStreamSubject, s.handle, nats.DeliverNew(), nats.AckNone())
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *CodeFilterSync) handle(msg *nats.Msg) {
	var event model.LinkCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.Warn("failed to unmarshal link created event", zap.Error(err))
		return
	}
	if event.ShortCode == "" {
		return
	}
	s.filter.Add(event.ShortCode)
}

// Stop drops the subscription. Safe to call when Start was never called.
func (s *CodeFilterSync) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.sub = nil
	return err
}
