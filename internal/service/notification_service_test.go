package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk-service/internal/config"
	"github.com/campus-kit/helpdesk-service/internal/events"
)

type capturePublisher struct {
	channel  string
	payloads [][]byte
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.channel = channel
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestNotificationServicePublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &capturePublisher{}
	bridge := NewNotificationService(dispatcher, publisher, zap.NewNop(), config.NotificationConfig{
		RedisChannel: "helpdesk:ticket-events",
	})
	bridge.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:           "evt-1",
		Type:         events.EventTicketCreated,
		TicketID:     "ticket-1",
		TicketNumber: "TCK-ABC12345",
	})
	require.NoError(t, err)

	assert.Equal(t, "helpdesk:ticket-events", publisher.channel)
	require.Len(t, publisher.payloads, 1)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &decoded))
	assert.Equal(t, events.EventTicketCreated, decoded.Type)
	assert.Equal(t, "TCK-ABC12345", decoded.TicketNumber)
}

func TestNotificationServiceSwallowsPublishErrors(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &capturePublisher{err: errors.New("redis gone")}
	bridge := NewNotificationService(dispatcher, publisher, zap.NewNop(), config.NotificationConfig{
		RedisChannel: "helpdesk:ticket-events",
	})
	bridge.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketStatusChanged, TicketID: "ticket-1"})
	assert.NoError(t, err)
}

func TestNotificationServiceSkipsWithoutChannel(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &capturePublisher{}
	bridge := NewNotificationService(dispatcher, publisher, zap.NewNop(), config.NotificationConfig{})
	bridge.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated})
	require.NoError(t, err)
	assert.Empty(t, publisher.payloads)
}
