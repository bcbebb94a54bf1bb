package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrDuplicate = errors.New("duplicate idempotency key")

var ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "balang_orders_created_total",
	Help: "Total number of orders persisted",
})

const idemScope = "order"

type CreateOrderInput struct {
	IdempotencyKey string
	Payload        domain.OrderPayload
}

type CreateOrderOutput struct {
	OrderID string
	Status  string
}

type CreateOrder struct {
	repo  OrderRepo
	idem  IdempotencyStore
	queue OrderQueue
}

func NewCreateOrder(repo OrderRepo, idem IdempotencyStore, queue OrderQueue) *CreateOrder {
	return &CreateOrder{repo: repo, idem: idem, queue: queue}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	if err := in.Payload.Validate(); err != nil {
		return CreateOrderOutput{}, err
	}

	// A missing token skips dedup entirely; the storefront always sends one,
	// but the endpoint accepts bare requests.
	if in.IdempotencyKey != "" {
		// Fast path: this attempt was already persisted.
		if id, ok, _ := uc.idem.Recall(ctx, idemScope, in.IdempotencyKey); ok {
			return CreateOrderOutput{OrderID: id, Status: string(domain.StatusPendingPayment)}, nil
		}
		ok, err := uc.idem.TryLock(ctx, idemScope, in.IdempotencyKey)
		if err != nil {
			return CreateOrderOutput{}, err
		}
		if !ok {
			return CreateOrderOutput{}, ErrDuplicate
		}
	}

	payloadJSON, err := json.Marshal(in.Payload)
	if err != nil {
		return CreateOrderOutput{}, err
	}

	orderID := uuid.NewString()
	rec := &OrderRecord{
		ID:             orderID,
		Status:         string(domain.StatusPendingPayment),
		PayloadJSON:    string(payloadJSON),
		IdempotencyKey: in.IdempotencyKey,
		TotalCents:     in.Payload.TotalCents,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return CreateOrderOutput{}, err
	}
	ordersCreated.Inc()

	// Confirmation email leaves via the queue; a publish failure is logged
	// and the order stands.
	if err := uc.queue.PublishCreated(ctx, OrderCreatedMsg{OrderID: orderID, TotalCents: rec.TotalCents}); err != nil {
		logging.FromCtx(ctx).Error("order.created publish failed", "order_id", orderID, "error", err)
	}

	if in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, idemScope, in.IdempotencyKey, orderID)
	}
	return CreateOrderOutput{OrderID: orderID, Status: rec.Status}, nil
}
