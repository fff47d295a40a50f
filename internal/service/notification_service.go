package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk-service/internal/config"
	"github.com/campus-kit/helpdesk-service/internal/events"
)

// Publisher is the outbound edge of the notification bridge. Implemented by
// persistence.Redis in production.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService forwards domain events to the external notification
// collaborator. Delivery is best-effort: failures are logged, never retried
// here, and never surface to the caller that produced the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every ticket event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketStatusChanged,
		events.EventTicketCommentAdded,
		events.EventTicketFeedbackSubmitted,
		events.EventTicketReopened,
	} {
		n.dispatcher.Subscribe(eventType, n.handleEvent)
	}
}

func (n *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("ticket_number", event.TicketNumber))

	n.publishToChannel(ctx, event)
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) publishToChannel(ctx context.Context, event events.Event) {
	if n.publisher == nil || strings.TrimSpace(n.cfg.RedisChannel) == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal notification", zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, n.cfg.RedisChannel, payload); err != nil {
		n.logger.Warn("publish notification",
			zap.String("channel", n.cfg.RedisChannel),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
