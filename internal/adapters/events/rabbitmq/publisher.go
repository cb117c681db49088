package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"medicine-reminder/internal/domain/registry"
	"medicine-reminder/internal/platform/logger"
)

const (
	DefaultQueue = "medicine.events"

	// plazo de conexión cuando ctx no trae deadline
	defaultDialTimeout = 5 * time.Second
)

// Channel es lo que usamos de *amqp.Channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer abre conexión + canal y declara la cola sin pasarse del deadline de ctx.
type Dialer func(ctx context.Context, url, queue string) (Channel, error)

// Publisher publica eventos del registry en una cola durable.
// La conexión se abre la primera vez y se reabre tras un fallo.
type Publisher struct {
	url   string
	queue string
	dial  Dialer
	log   logger.Logger

	mu sync.Mutex
	ch Channel
}

var _ registry.EventPublisher = (*Publisher)(nil)

func NewPublisher(url, queue string, log logger.Logger) *Publisher {
	return newPublisher(url, queue, DialQueue, log)
}

func newPublisher(url, queue string, dial Dialer, log logger.Logger) *Publisher {
	if strings.TrimSpace(queue) == "" {
		queue = DefaultQueue
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{
		url:   url,
		queue: queue,
		dial:  dial,
		log:   log.With(logger.Fields{"component": "amqp", "queue": queue}),
	}
}

func (p *Publisher) Publish(ctx context.Context, e registry.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		ch, err := p.connect(ctx)
		if err != nil {
			return fmt.Errorf("amqp dial: %w", err)
		}
		p.ch = ch
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(e.Type),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		_ = p.ch.Close()
		p.ch = nil
		return fmt.Errorf("amqp publish: %w", err)
	}

	p.log.Debug("event published", logger.Fields{"event": string(e.Type), "medicine_id": e.MedicineID})
	return nil
}

// connect corta en cuanto ctx vence aunque el Dialer siga bloqueado;
// un canal que llega tarde se cierra.
func (p *Publisher) connect(ctx context.Context) (Channel, error) {
	type dialed struct {
		ch  Channel
		err error
	}
	res := make(chan dialed, 1)
	go func() {
		ch, err := p.dial(ctx, p.url, p.queue)
		res <- dialed{ch, err}
	}()

	select {
	case r := <-res:
		return r.ch, r.err
	case <-ctx.Done():
		go func() {
			if r := <-res; r.ch != nil {
				_ = r.ch.Close()
			}
		}()
		return nil, ctx.Err()
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

// connChannel cierra también la conexión al cerrar el canal.
type connChannel struct {
	*amqp.Channel
	conn *amqp.Connection
}

func (c connChannel) Close() error {
	return errors.Join(c.Channel.Close(), c.conn.Close())
}

func DialQueue(ctx context.Context, url, queue string) (Channel, error) {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// durable: los mensajes sobreviven a un reinicio del broker
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return connChannel{Channel: ch, conn: conn}, nil
}
