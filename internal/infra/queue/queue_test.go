package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/queue"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, msg)
	return args.Error(0)
}

type stubConsumer struct {
	deliveries chan amqp.Delivery
}

func (s *stubConsumer) ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return s.deliveries, nil
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendOutbound(to string, ticketID int64, body string) error {
	args := m.Called(to, ticketID, body)
	return args.Error(0)
}

type MockIntegrationLog struct {
	mock.Mock
}

func (m *MockIntegrationLog) Log(ctx context.Context, entry *entity.IntegrationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockAck struct {
	mock.Mock
}

func (m *MockAck) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *MockAck) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func outbound(channel string, recipient *string) entity.OutboundMessage {
	return entity.OutboundMessage{
		MessageID: "6f1c2a9e-2f0b-4b7e-9d53-0c1f7a1e2b3c",
		TicketID:  4,
		CommentID: 21,
		Channel:   channel,
		Body:      "We will call you back",
		Recipient: recipient,
	}
}

func TestPublishOutbound(t *testing.T) {
	pub := new(MockPublisher)
	producer := queue.NewProducer(pub)
	msg := outbound(entity.OutboundChannelEmail, nil)

	pub.On("PublishWithContext", mock.Anything, queue.ExchangeName, queue.RoutingKey, mock.MatchedBy(func(p amqp.Publishing) bool {
		var decoded entity.OutboundMessage
		return p.MessageId == msg.MessageID &&
			p.CorrelationId == "4" &&
			p.DeliveryMode == amqp.Persistent &&
			json.Unmarshal(p.Body, &decoded) == nil && decoded.CommentID == 21
	})).Return(nil)

	require.NoError(t, producer.PublishOutbound(context.Background(), msg))
	pub.AssertExpectations(t)
}

func TestPublishOutboundWrapsBrokerError(t *testing.T) {
	pub := new(MockPublisher)
	producer := queue.NewProducer(pub)

	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(amqp.ErrClosed)

	err := producer.PublishOutbound(context.Background(), outbound(entity.OutboundChannelEmail, nil))
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestWorkerHandle(t *testing.T) {
	email := "sara@example.com"

	t.Run("Email Delivered", func(t *testing.T) {
		sender, logs, ack := new(MockSender), new(MockIntegrationLog), new(MockAck)
		w := &queue.Worker{Sender: sender, Integrations: logs}
		var observed []string
		w.OnResult = func(channel, status string) { observed = append(observed, channel+":"+status) }

		sender.On("SendOutbound", email, int64(4), "We will call you back").Return(nil)
		logs.On("Log", mock.Anything, mock.MatchedBy(func(e *entity.IntegrationLog) bool {
			return e.Status == entity.IntegrationStatusSent && e.Direction == entity.IntegrationOutbound && e.ResponseBody == nil
		})).Return(nil)
		ack.On("Ack", false).Return(nil)

		body, _ := json.Marshal(outbound(entity.OutboundChannelEmail, &email))
		w.Handle(context.Background(), body, ack)

		sender.AssertExpectations(t)
		logs.AssertExpectations(t)
		ack.AssertExpectations(t)
		assert.Equal(t, []string{"email:sent"}, observed)
	})

	t.Run("Send Failure Goes To DLQ", func(t *testing.T) {
		sender, logs, ack := new(MockSender), new(MockIntegrationLog), new(MockAck)
		w := &queue.Worker{Sender: sender, Integrations: logs}

		sender.On("SendOutbound", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp: 421"))
		logs.On("Log", mock.Anything, mock.MatchedBy(func(e *entity.IntegrationLog) bool {
			return e.Status == entity.IntegrationStatusFailed && e.ResponseBody != nil && *e.ResponseBody == "smtp: 421"
		})).Return(nil)
		ack.On("Nack", false, false).Return(nil)

		body, _ := json.Marshal(outbound(entity.OutboundChannelEmail, &email))
		w.Handle(context.Background(), body, ack)

		logs.AssertExpectations(t)
		ack.AssertExpectations(t)
	})

	t.Run("Missing Recipient", func(t *testing.T) {
		sender, logs, ack := new(MockSender), new(MockIntegrationLog), new(MockAck)
		w := &queue.Worker{Sender: sender, Integrations: logs}

		logs.On("Log", mock.Anything, mock.MatchedBy(func(e *entity.IntegrationLog) bool {
			return e.Status == entity.IntegrationStatusFailed
		})).Return(nil)
		ack.On("Nack", false, false).Return(nil)

		body, _ := json.Marshal(outbound(entity.OutboundChannelEmail, nil))
		w.Handle(context.Background(), body, ack)

		sender.AssertNotCalled(t, "SendOutbound", mock.Anything, mock.Anything, mock.Anything)
		ack.AssertExpectations(t)
	})

	t.Run("Unknown Channel Acked", func(t *testing.T) {
		sender, logs, ack := new(MockSender), new(MockIntegrationLog), new(MockAck)
		w := &queue.Worker{Sender: sender, Integrations: logs}

		ack.On("Ack", false).Return(nil)

		body, _ := json.Marshal(outbound("whatsapp", &email))
		w.Handle(context.Background(), body, ack)

		ack.AssertExpectations(t)
		sender.AssertNotCalled(t, "SendOutbound", mock.Anything, mock.Anything, mock.Anything)
		logs.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
	})

	t.Run("Malformed Payload", func(t *testing.T) {
		ack := new(MockAck)
		w := &queue.Worker{Sender: new(MockSender)}

		ack.On("Nack", false, false).Return(nil)

		w.Handle(context.Background(), []byte("{not json"), ack)

		ack.AssertExpectations(t)
		ack.AssertNotCalled(t, "Ack", mock.Anything)
	})
}

func TestWorkerStartReportsClosedChannel(t *testing.T) {
	consumer := &stubConsumer{deliveries: make(chan amqp.Delivery)}
	close(consumer.deliveries)
	w := queue.NewWorker(consumer, new(MockSender), nil)

	err := w.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery channel closed")
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	consumer := &stubConsumer{deliveries: make(chan amqp.Delivery)}
	w := queue.NewWorker(consumer, new(MockSender), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, w.Start(ctx))
}
