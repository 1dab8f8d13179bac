package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

type Service struct {
	broker  messaging.Broker
	channel string
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(broker messaging.Broker, channel string, m *metrics.Metrics, l *logger.Logger) *Service {
	if broker == nil {
		broker = messaging.NopBroker{}
	}
	return &Service{
		broker:  broker,
		channel: channel,
		metrics: m,
		logger:  l,
		now:     time.Now,
	}
}

func (s *Service) Publish(ctx context.Context, eventType Type, payload interface{}) {
	env := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	}

	if err := s.broker.Publish(ctx, s.channel, env); err != nil {
		s.metrics.EventPublished(string(eventType), "failed")
		s.logger.Error(err, "failed to publish event", "event_type", eventType, "event_id", env.ID)
		return
	}
	s.metrics.EventPublished(string(eventType), "ok")
}
