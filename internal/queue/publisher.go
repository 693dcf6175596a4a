package queue

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/metrics"
	"github.com/brlima/auth-gateway/internal/model"
)

// ErrUnavailable is returned when the broker cannot be reached on a lazy
// connect attempt. The publish is never attempted in that case.
var ErrUnavailable = errors.New("queue service is not available")

// Client is the broker client managed by the Publisher.
type Client interface {
	Connect(ctx context.Context) error
	SendMessage(ctx context.Context, queueName string, message model.Message) error
	Disconnect() error
	Connected() bool
}

var _ model.EventPublisher = (*Publisher)(nil)

// Publisher publishes user lifecycle events, lazily connecting the
// underlying client before the first send. The connect check and attempt
// run under a mutex, so concurrent cold-start publishes serialize on one
// connection attempt instead of racing.
type Publisher struct {
	client Client
	queues config.Queues
	logger *logger.Logger

	mu sync.Mutex
}

// NewPublisher creates a Publisher over a broker client and queue names.
func NewPublisher(client Client, queues config.Queues, logger *logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		queues: queues,
		logger: logger,
	}
}

func (p *Publisher) ensureConnected(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client.Connected() {
		return nil
	}

	p.logger.Info("publisher: queue client not connected, initializing")

	if err := p.client.Connect(ctx); err != nil {
		p.logger.Error("publisher: failed to initialize queue client", "error", err.Error())
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	return nil
}

// PublishUserSignup publishes a USER_SIGNUP event to the signup queue.
func (p *Publisher) PublishUserSignup(ctx context.Context, event model.UserSignupEvent) error {
	return p.publish(ctx, p.queues.UserSignup, model.EventUserSignup, event)
}

// PublishUserLogin publishes a USER_LOGIN event to the login queue.
func (p *Publisher) PublishUserLogin(ctx context.Context, event model.UserLoginEvent) error {
	return p.publish(ctx, p.queues.UserLogin, model.EventUserLogin, event)
}

func (p *Publisher) publish(ctx context.Context, queueName, eventType string, payload any) error {
	if err := p.ensureConnected(ctx); err != nil {
		return err
	}

	message := model.Message{
		ID:        newMessageID(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := p.client.SendMessage(ctx, queueName, message); err != nil {
		p.logger.Error("publisher: failed to publish event",
			"queue", queueName,
			"type", eventType,
			"error", err.Error())
		return err
	}

	metrics.QueueMessagesPublished.WithLabelValues(queueName).Inc()

	p.logger.Info("publisher: event published",
		"queue", queueName,
		"type", eventType,
		"message_id", message.ID)

	return nil
}

// Connected reports broker connectivity for health checks.
func (p *Publisher) Connected() bool {
	return p.client.Connected()
}

// Disconnect closes the underlying client.
func (p *Publisher) Disconnect() error {
	return p.client.Disconnect()
}

func newMessageID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
