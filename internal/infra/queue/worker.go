package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/maria-crm/internal/entity"
)

var (
	errNoRecipient      = errors.New("ticket contact has no email")
	errDeliveriesClosed = errors.New("delivery channel closed")
)

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// OutboundSender delivers a ticket reply by email.
type OutboundSender interface {
	SendOutbound(to string, ticketID int64, body string) error
}

// Acknowledger is satisfied by amqp.Delivery.
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type Worker struct {
	Channel      Consumer
	Sender       OutboundSender
	Integrations entity.IntegrationLogRepositoryInterface
	// OnResult observes every processed message; nil is allowed.
	OnResult func(channel, status string)
}

func NewWorker(ch Consumer, sender OutboundSender, integrations entity.IntegrationLogRepositoryInterface) *Worker {
	return &Worker{
		Channel:      ch,
		Sender:       sender,
		Integrations: integrations,
	}
}

// Start consumes q.outbound until ctx is done. A closed delivery channel means
// the broker connection or channel went away and is reported as an error.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("registering consumer: %w", err)
	}

	log.Printf("🐇 [WORKER] waiting on queue '%s'", QueueName)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			w.Handle(ctx, d.Body, d)
		}
	}
}

// Handle processes one delivery. Malformed payloads and failed sends are
// rejected without requeue so they land in the DLQ.
func (w *Worker) Handle(ctx context.Context, body []byte, ack Acknowledger) {
	var msg entity.OutboundMessage
	if err := json.Unmarshal(body, &msg); err != nil || msg.MessageID == "" {
		log.Printf("❌ [WORKER] malformed outbound message: %v", err)
		ack.Nack(false, false)
		return
	}

	switch msg.Channel {
	case entity.OutboundChannelEmail:
		err := w.sendEmail(msg)
		status := entity.IntegrationStatusSent
		if err != nil {
			status = entity.IntegrationStatusFailed
		}
		w.record(ctx, msg, status, err)

		if err != nil {
			log.Printf("❌ [WORKER] message=%s ticket=%d not delivered: %v", msg.MessageID, msg.TicketID, err)
			ack.Nack(false, false)
			return
		}
		log.Printf("✅ [WORKER] message=%s ticket=%d delivered by email", msg.MessageID, msg.TicketID)
		ack.Ack(false)

	default:
		log.Printf("⚠️ [WORKER] message=%s unknown channel %q, dropping", msg.MessageID, msg.Channel)
		w.observe(msg.Channel, "skipped")
		ack.Ack(false)
	}
}

func (w *Worker) sendEmail(msg entity.OutboundMessage) error {
	if msg.Recipient == nil || strings.TrimSpace(*msg.Recipient) == "" {
		return errNoRecipient
	}
	return w.Sender.SendOutbound(*msg.Recipient, msg.TicketID, msg.Body)
}

func (w *Worker) record(ctx context.Context, msg entity.OutboundMessage, status string, sendErr error) {
	w.observe(msg.Channel, status)
	if w.Integrations == nil {
		return
	}

	payload, _ := json.Marshal(msg)
	entry := &entity.IntegrationLog{
		Channel:   msg.Channel,
		Direction: entity.IntegrationOutbound,
		Status:    status,
		Payload:   payload,
	}
	if sendErr != nil {
		reason := sendErr.Error()
		entry.ResponseBody = &reason
	}

	if err := w.Integrations.Log(ctx, entry); err != nil {
		log.Printf("⚠️ [WORKER] integration log for message=%s failed: %v", msg.MessageID, err)
	}
}

func (w *Worker) observe(channel, status string) {
	if w.OnResult != nil {
		w.OnResult(channel, status)
	}
}
