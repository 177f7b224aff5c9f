package service

import (
	"context"
	"encoding/json"
	"time"

	"chatdesk-be/internal/dto"
	"chatdesk-be/internal/pkg/logger"
	"chatdesk-be/pkg/events"
	pkgNats "chatdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process chat event bus and relays each
// event to NATS for external consumers.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pkgNats.Publisher
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.ChatEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal chat event", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack malformed messages, retrying cannot fix them.
		msg.Ack()
		return
	}

	if cs.eventPublisher == nil {
		msg.Ack()
		return
	}

	event := events.BaseEvent{
		Type: payload.EventType,
		Data: map[string]interface{}{
			"conversation_id": payload.ConversationId,
			"message_id":      payload.MessageId,
			"actor_id":        payload.ActorId,
			"occurred_at":     payload.OccurredAt,
		},
		OccurredAt: payload.OccurredAt,
	}

	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cs.eventPublisher.Publish(pubCtx, event); err != nil {
		cs.log.Warn("consumer", "failed to relay event to NATS", map[string]interface{}{
			"event_type": payload.EventType,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
