package events

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrNoChannels = errors.New("no channels available in pool")
	ErrPoolClosed = errors.New("channel pool closed")
)

// Channel es la parte de *amqp.Channel que usa el pool
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// ChannelPool mantiene un número fijo de canales. Un canal que el broker cierra
// tras un error se reemplaza al devolverlo, así el pool no se va vaciando.
type ChannelPool struct {
	conn     *amqp.Connection
	channels chan Channel
	open     func() (Channel, error)
	mu       sync.Mutex
	closed   bool
}

// NewChannelPool abre la conexión y crea size canales con la cola ya declarada
func NewChannelPool(url, queueName string, size int) (*ChannelPool, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	pool, err := newPool(size, func() (Channel, error) {
		return createChannel(conn, queueName)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	pool.conn = conn

	log.Printf("rabbitmq channel pool ready with %d channels", cap(pool.channels))
	return pool, nil
}

func newPool(size int, open func() (Channel, error)) (*ChannelPool, error) {
	if size < 1 {
		size = 1
	}

	pool := &ChannelPool{
		channels: make(chan Channel, size),
		open:     open,
	}
	for i := 0; i < size; i++ {
		ch, err := open()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		pool.channels <- ch
	}
	return pool, nil
}

func createChannel(conn *amqp.Connection, queueName string) (Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// declarar la cola es idempotente
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	return ch, nil
}

// Get espera un canal libre hasta que ctx termine
func (p *ChannelPool) Get(ctx context.Context) (Channel, error) {
	select {
	case ch, ok := <-p.channels:
		if !ok {
			return nil, ErrPoolClosed
		}
		if !ch.IsClosed() {
			return ch, nil
		}
		fresh, err := p.open()
		if err != nil {
			// se devuelve el canal cerrado para no perder el hueco
			p.release(ch)
			return nil, fmt.Errorf("reopen channel: %w", err)
		}
		return fresh, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrNoChannels, ctx.Err())
	}
}

// Put devuelve el canal al pool, reabriéndolo si el broker lo cerró
func (p *ChannelPool) Put(ch Channel) {
	if ch == nil {
		return
	}
	if ch.IsClosed() {
		fresh, err := p.open()
		if err != nil {
			log.Printf("reopen channel: %v", err)
		} else {
			ch = fresh
		}
	}
	p.release(ch)
}

func (p *ChannelPool) release(ch Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	log.Println("rabbitmq channel pool closed")
}
