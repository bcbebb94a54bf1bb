package queue

import (
	"context"

	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	emailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balang_confirmation_emails_sent_total",
		Help: "Confirmation emails delivered",
	})
	emailsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balang_confirmation_emails_failed_total",
		Help: "Confirmation email attempts that errored (requeued)",
	})
)

// Mailer sends the order confirmation. Implemented by the SMTP adapter.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, orderID string) error
}

// OrderCreatedHandler sends the confirmation email for a persisted order.
// Its failures stay in this lane: the order is already durable and the
// intake response has long been sent.
type OrderCreatedHandler struct {
	mailer Mailer
}

func NewOrderCreatedHandler(m Mailer) *OrderCreatedHandler {
	return &OrderCreatedHandler{mailer: m}
}

// HandleCreated is used with the JSON adapter (queue.JSONHandler[usecase.OrderCreatedMsg]).
// Returning an error nacks the delivery for retry.
func (h *OrderCreatedHandler) HandleCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	if err := h.mailer.SendOrderConfirmation(ctx, msg.OrderID); err != nil {
		emailsFailed.Inc()
		logging.FromCtx(ctx).Error("confirmation email failed",
			"order_id", msg.OrderID, "error", err)
		return err
	}
	emailsSent.Inc()
	logging.FromCtx(ctx).Info("confirmation email sent", "order_id", msg.OrderID)
	return nil
}
