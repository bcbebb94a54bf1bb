package usecase

// Published on order.events after an order is persisted; the mail worker
// consumes it.
type OrderCreatedMsg struct {
	OrderID    string `json:"orderId"`
	TotalCents int64  `json:"totalCents"`
}
