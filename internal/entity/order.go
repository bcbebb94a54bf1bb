package domain

import (
	"errors"
	"time"
)

type Status string

const (
	// StatusPendingPayment is the initial status of every persisted order;
	// payment is settled out of band.
	StatusPendingPayment Status = "Pending Payment"
)

var ErrInvalidTotal = errors.New("invalid total")

// PackageSummary is the booked package as it appeared at submission time.
type PackageSummary struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// FlavorLine is one selected drink flavor.
type FlavorLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// AddonLine is one manually selected add-on.
type AddonLine struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
}

// ExtraBalangs is the auto-derived overflow line, present only when the
// selected flavor count exceeded the package limit.
type ExtraBalangs struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	CostCents int64  `json:"costCents"`
}

// OrderPayload is the immutable snapshot a storefront session submits.
// Built once at submission time, never mutated after.
type OrderPayload struct {
	Package               *PackageSummary `json:"package"`
	Flavors               []FlavorLine    `json:"flavors"`
	Addons                []AddonLine     `json:"addons"`
	AutoAddedExtraBalangs *ExtraBalangs   `json:"autoAddedExtraBalangs"`
	TotalCents            int64           `json:"totalCents"`
}

func (p *OrderPayload) Validate() error {
	if p.TotalCents <= 0 {
		return ErrInvalidTotal
	}
	return nil
}

// Order is a persisted order as the intake side serves it back.
type Order struct {
	ID        string       `json:"id"`
	Status    Status       `json:"status"`
	Payload   OrderPayload `json:"payload"`
	CreatedAt time.Time    `json:"createdAt"`
}
