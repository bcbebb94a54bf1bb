package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single delivery. It should be idempotent.
// Return nil => ACK; return error => NACK (requeue behavior controlled by Router).
type Handler interface {
	Handle(ctx context.Context, d amqp.Delivery) error
}

// JSONHandler adapts a typed function into a raw Delivery handler.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var v T
	if err := json.Unmarshal(d.Body, &v); err != nil {
		return err
	}
	return h.HandleFunc(ctx, v)
}

// Router manages multiple consumers (one per registered queue) on a single
// AMQP channel.
type Router struct {
	ch            *amqp.Channel
	prefetch      int
	callTimeout   time.Duration
	requeueOnErr  bool
	registrations []registration
}

type registration struct {
	queueName   string
	handler     Handler
	consumerTag string
}

type RouterOption func(*Router)

func WithPrefetch(n int) RouterOption          { return func(r *Router) { r.prefetch = n } }
func WithTimeout(d time.Duration) RouterOption { return func(r *Router) { r.callTimeout = d } }
func WithRequeue(b bool) RouterOption          { return func(r *Router) { r.requeueOnErr = b } }

// NewRouter constructs a Router. Defaults: prefetch=50, timeout=10s, requeueOnErr=true.
func NewRouter(ch *amqp.Channel, opts ...RouterOption) *Router {
	r := &Router{
		ch:           ch,
		prefetch:     50,
		callTimeout:  10 * time.Second,
		requeueOnErr: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates a queue with a handler. Call multiple times for multiple queues.
func (r *Router) Register(queueName string, h Handler) {
	r.registrations = append(r.registrations, registration{
		queueName:   queueName,
		handler:     h,
		consumerTag: "c_" + queueName,
	})
}

// Start begins consuming; non-blocking (spawns one goroutine per queue).
// QoS (prefetch) applies to all consumers on this channel.
func (r *Router) Start() error {
	if err := r.ch.Qos(r.prefetch, 0, false); err != nil {
		return err
	}

	log := logging.New("rmq-router")

	for _, reg := range r.registrations {
		deliveries, err := r.ch.Consume(
			reg.queueName,
			reg.consumerTag,
			false, // manual ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
		if err != nil {
			return err
		}

		go func(queueName, tag string, h Handler, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				ctx, cancel := context.WithTimeout(context.Background(), r.callTimeout)
				err := h.Handle(ctx, d)
				cancel()

				if err != nil {
					log.Error("handler error",
						"queue", queueName, "tag", tag, "routing_key", d.RoutingKey,
						"error", err, "requeue", r.requeueOnErr)
					_ = d.Nack(false, r.requeueOnErr)
					continue
				}
				_ = d.Ack(false)
			}
			log.Info("consumer stopped", "queue", queueName, "tag", tag)
		}(reg.queueName, reg.consumerTag, reg.handler, deliveries)
	}

	return nil
}
