package amqp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/brlima/auth-gateway/internal/config"
	"github.com/brlima/auth-gateway/internal/logger"
	"github.com/brlima/auth-gateway/internal/model"
)

const (
	heartbeatInterval = 60 * time.Second
	dialTimeout       = 10 * time.Second
)

// ErrNotConnected is returned when an operation requires an established
// connection. The client never reconnects on its own; callers decide.
var ErrNotConnected = errors.New("not connected to message broker")

// channel is the subset of amqp091.Channel used by the client.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

// connection is the subset of amqp091.Connection used by the client.
type connection interface {
	Channel() (channel, error)
	NotifyClose(c chan *amqp.Error) chan *amqp.Error
	Close() error
}

type dialFunc func(url string, cfg amqp.Config) (connection, error)

type amqpConnection struct {
	*amqp.Connection
}

func (c *amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func defaultDial(url string, cfg amqp.Config) (connection, error) {
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}
	return &amqpConnection{Connection: conn}, nil
}

// Client manages a single connection and channel to the broker over
// AMQPS. Publishes persistent messages to durable queues and consumes
// with prefetch 1 and manual acknowledgement.
type Client struct {
	url    string
	host   string
	dial   dialFunc
	logger *logger.Logger

	mu        sync.Mutex
	conn      connection
	ch        channel
	connected bool
}

// NewClient creates a Client from broker configuration. No connection is
// opened until Connect is called.
func NewClient(cfg config.Queue, logger *logger.Logger) *Client {
	vhost := cfg.VirtualHost
	if vhost == "" {
		vhost = "/"
	}

	return &Client{
		url:    fmt.Sprintf("amqps://%s:%s@%s:%s%s", cfg.Username, cfg.Password, cfg.Host, cfg.Port, vhost),
		host:   cfg.Host,
		dial:   defaultDial,
		logger: logger,
	}
}

// Connect opens the connection and channel. Calling Connect while already
// connected is a no-op. A failed attempt is not retried here.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected && c.conn != nil && c.ch != nil {
		c.logger.Info("queue client: already connected")
		return nil
	}

	c.logger.Info("queue client: connecting to broker", "host", c.host)

	conn, err := c.dial(c.url, amqp.Config{
		Heartbeat: heartbeatInterval,
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		c.connected = false
		c.logger.Error("queue client: failed to connect", "host", c.host, "error", err.Error())
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		c.connected = false
		c.logger.Error("queue client: failed to open channel", "error", err.Error())
		return fmt.Errorf("failed to open channel: %w", err)
	}

	c.conn = conn
	c.ch = ch
	c.connected = true
	c.watchClose(conn, ch)

	c.logger.Info("queue client: connected to broker", "host", c.host)

	return nil
}

// watchClose flips the connected flag when the broker closes the
// connection. Channel-level errors are logged only; the connection
// watcher is the source of truth for connectivity.
func (c *Client) watchClose(conn connection, ch channel) {
	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

	go func() {
		err, ok := <-connClosed
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		if ok && err != nil {
			c.logger.Error("queue client: connection error", "error", err.Error())
		} else {
			c.logger.Warn("queue client: connection closed")
		}
	}()

	go func() {
		err, ok := <-chClosed
		if ok && err != nil {
			c.logger.Error("queue client: channel error", "error", err.Error())
		} else {
			c.logger.Warn("queue client: channel closed")
		}
	}()
}

// SendMessage publishes a persistent JSON message to a durable queue.
// A missing message id is generated; a missing timestamp is set to now.
func (c *Client) SendMessage(ctx context.Context, queueName string, message model.Message) error {
	c.mu.Lock()
	ch := c.ch
	connected := c.connected
	c.mu.Unlock()

	if !connected || ch == nil {
		return ErrNotConnected
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		c.logger.Error("queue client: failed to declare queue", "queue", queueName, "error", err.Error())
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d-%s", time.Now().UnixMilli(), randomHex(4))
	}
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    message.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		c.logger.Error("queue client: failed to publish message",
			"queue", queueName,
			"message_id", message.ID,
			"error", err.Error())
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("queue client: message sent",
		"queue", queueName,
		"message_id", message.ID,
		"type", message.Type)

	return nil
}

// ConsumeMessages registers a consumer with prefetch 1. Each delivery is
// decoded and handed to handler: ack on success, nack without requeue on
// decode or handler failure. Consumption stops when the delivery channel
// closes.
func (c *Client) ConsumeMessages(ctx context.Context, queueName string, handler func(context.Context, model.Message) error) error {
	c.mu.Lock()
	ch := c.ch
	connected := c.connected
	c.mu.Unlock()

	if !connected || ch == nil {
		return ErrNotConnected
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		c.logger.Error("queue client: failed to register consumer", "queue", queueName, "error", err.Error())
		return fmt.Errorf("failed to register consumer on %s: %w", queueName, err)
	}

	go func() {
		for delivery := range deliveries {
			c.handleDelivery(ctx, queueName, delivery, handler)
		}
		c.logger.Warn("queue client: consumer stopped", "queue", queueName)
	}()

	c.logger.Info("queue client: started consuming", "queue", queueName)

	return nil
}

func (c *Client) handleDelivery(ctx context.Context, queueName string, delivery amqp.Delivery, handler func(context.Context, model.Message) error) {
	var message model.Message
	if err := json.Unmarshal(delivery.Body, &message); err != nil {
		c.logger.Error("queue client: failed to decode message",
			"queue", queueName,
			"message_id", delivery.MessageId,
			"error", err.Error())
		_ = delivery.Nack(false, false)
		return
	}

	c.logger.Info("queue client: processing message",
		"queue", queueName,
		"message_id", delivery.MessageId)

	if err := handler(ctx, message); err != nil {
		c.logger.Error("queue client: failed to process message",
			"queue", queueName,
			"message_id", delivery.MessageId,
			"error", err.Error())
		_ = delivery.Nack(false, false)
		return
	}

	_ = delivery.Ack(false)

	c.logger.Info("queue client: message processed", "queue", queueName, "message_id", delivery.MessageId)
}

// Disconnect closes the channel then the connection. The connected flag
// is reset even when a close fails.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.ch != nil {
		if err := c.ch.Close(); err != nil {
			c.logger.Error("queue client: failed to close channel", "error", err.Error())
			errs = append(errs, err)
		}
		c.ch = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("queue client: failed to close connection", "error", err.Error())
			errs = append(errs, err)
		}
		c.conn = nil
	}

	c.connected = false

	return errors.Join(errs...)
}

// Connected reports whether an explicit Connect succeeded and no close
// event has fired since.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
