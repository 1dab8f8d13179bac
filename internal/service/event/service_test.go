package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

type captureBroker struct {
	channel string
	message interface{}
	err     error
}

func (b *captureBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	b.channel = channel
	b.message = message
	return b.err
}

func (b *captureBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *captureBroker) Close() error { return nil }

func TestPublishWrapsPayload(t *testing.T) {
	broker := &captureBroker{}
	m := metrics.New(prometheus.NewRegistry(), "test")
	svc := NewService(broker, "clinic.events", m, logger.Nop())
	fixed := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	svc.Publish(context.Background(), PatientRegistered, map[string]string{"patientId": "001"})

	assert.Equal(t, "clinic.events", broker.channel)
	env, ok := broker.message.(Envelope)
	require.True(t, ok)
	assert.Equal(t, PatientRegistered, env.Type)
	assert.Equal(t, fixed, env.OccurredAt)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("patient.registered", "ok")))
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	broker := &captureBroker{err: errors.New("connection refused")}
	m := metrics.New(prometheus.NewRegistry(), "test")
	svc := NewService(broker, "clinic.events", m, logger.Nop())

	assert.NotPanics(t, func() {
		svc.Publish(context.Background(), VisitCreated, nil)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("visit.created", "failed")))
}
