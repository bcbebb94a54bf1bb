package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
	"github.com/gin-gonic/gin"
)

// OrderHandler is the intake side: persist the submitted payload, hand the
// confirmation email to the queue, answer with the order id.
type OrderHandler struct {
	create *usecase.CreateOrder
	query  usecase.OrderRepo
}

func NewOrderHandler(create *usecase.CreateOrder, query usecase.OrderRepo) *OrderHandler {
	return &OrderHandler{create: create, query: query}
}

type createOrderResp struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CreateOrder accepts an order payload and returns {success, orderId}.
// Persistence alone decides the outcome; notification runs in its own lane.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var payload domain.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, createOrderResp{Success: false, Error: "bad_request"})
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // dedupes double-clicks and retries

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateOrderInput{
		IdempotencyKey: idemKey,
		Payload:        payload,
	})

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrDuplicate) {
			status = http.StatusConflict
		}
		if errors.Is(err, domain.ErrInvalidTotal) {
			status = http.StatusBadRequest
		}
		c.JSON(status, createOrderResp{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, createOrderResp{Success: true, OrderID: out.OrderID})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec, err := h.query.GetByID(ctx, id)
	if err != nil || rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	var payload domain.OrderPayload
	_ = json.Unmarshal([]byte(rec.PayloadJSON), &payload)

	c.JSON(http.StatusOK, domain.Order{
		ID:        rec.ID,
		Status:    domain.Status(rec.Status),
		Payload:   payload,
		CreatedAt: rec.CreatedAt,
	})
}
