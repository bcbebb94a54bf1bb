package usecase

import (
	"context"
	"time"
)

// Persistence shape (kept out of domain).
type OrderRecord struct {
	ID             string
	Status         string
	PayloadJSON    string
	IdempotencyKey string
	TotalCents     int64
	CreatedAt      time.Time
}

type OrderRepo interface {
	Create(ctx context.Context, o *OrderRecord) error
	GetByID(ctx context.Context, id string) (*OrderRecord, error)
	GetByIdemKey(ctx context.Context, idemKey string) (*OrderRecord, error)
}

// IdempotencyStore dedupes intake requests on the client-supplied token.
type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// OrderQueue carries post-persistence side effects (the confirmation email).
// Publishing is decoupled from the intake response: a queue outage must not
// fail an already-persisted order.
type OrderQueue interface {
	PublishCreated(ctx context.Context, msg OrderCreatedMsg) error
}
