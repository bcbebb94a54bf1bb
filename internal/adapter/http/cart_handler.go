package http

import (
	"errors"
	"net/http"

	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/AutomationAlchemyst/balangconnect/internal/checkout"
	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-Id"

// CartHandler serves the storefront session: cart mutations, quotes, and the
// checkout pipeline. The session id rides the X-Session-Id header; one is
// minted on first contact and echoed back.
type CartHandler struct {
	sessions  *cart.Sessions
	pipelines *checkout.Pipelines
	catalog   *catalog.Service
	policy    pricing.OverflowPolicy
}

func NewCartHandler(sessions *cart.Sessions, pipelines *checkout.Pipelines, cat *catalog.Service, policy pricing.OverflowPolicy) *CartHandler {
	return &CartHandler{sessions: sessions, pipelines: pipelines, catalog: cat, policy: policy}
}

func (h *CartHandler) session(c *gin.Context) (string, *cart.Cart) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(sessionHeader, id)
	return id, h.sessions.Get(id)
}

type cartView struct {
	SessionID string        `json:"sessionId"`
	Cart      cart.Snapshot `json:"cart"`
	Quote     pricing.Quote `json:"quote"`
}

func (h *CartHandler) view(sessionID string, ca *cart.Cart) cartView {
	snap := ca.Snapshot()
	return cartView{
		SessionID: sessionID,
		Cart:      snap,
		Quote:     pricing.Compute(snap, h.catalog.Current(), h.policy),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	id, ca := h.session(c)
	c.JSON(http.StatusOK, h.view(id, ca))
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	id, ca := h.session(c)
	ca.Clear()
	c.JSON(http.StatusOK, h.view(id, ca))
}

type addDrinkReq struct {
	DrinkID string `json:"drinkId" binding:"required"`
}

func (h *CartHandler) AddDrink(c *gin.Context) {
	var req addDrinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	d := h.catalog.Current().DrinkByID(req.DrinkID)
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown drink"})
		return
	}
	id, ca := h.session(c)
	ca.AddDrink(*d)
	c.JSON(http.StatusOK, h.view(id, ca))
}

func (h *CartHandler) RemoveDrink(c *gin.Context) {
	id, ca := h.session(c)
	ca.RemoveDrink(c.Param("id"))
	c.JSON(http.StatusOK, h.view(id, ca))
}

type selectPackageReq struct {
	// Empty or absent clears the selection.
	PackageID string `json:"packageId"`
}

func (h *CartHandler) SelectPackage(c *gin.Context) {
	var req selectPackageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	id, ca := h.session(c)
	if req.PackageID == "" {
		ca.SelectPackage(nil)
		c.JSON(http.StatusOK, h.view(id, ca))
		return
	}
	p := h.catalog.Current().PackageByID(req.PackageID)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown package"})
		return
	}
	ca.SelectPackage(p)
	c.JSON(http.StatusOK, h.view(id, ca))
}

type addAddonReq struct {
	AddonID string `json:"addonId" binding:"required"`
}

func (h *CartHandler) AddAddon(c *gin.Context) {
	var req addAddonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	a := h.catalog.Current().AddonByID(req.AddonID)
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown addon"})
		return
	}
	id, ca := h.session(c)
	ca.AddAddon(*a)
	c.JSON(http.StatusOK, h.view(id, ca))
}

func (h *CartHandler) RemoveAddon(c *gin.Context) {
	id, ca := h.session(c)
	ca.RemoveAddon(c.Param("id"))
	c.JSON(http.StatusOK, h.view(id, ca))
}

// Checkout drives the session's submission pipeline. The cart is not cleared
// on success; the front-end clears it explicitly.
func (h *CartHandler) Checkout(c *gin.Context) {
	id, ca := h.session(c)
	snap := ca.Snapshot()
	quote := pricing.Compute(snap, h.catalog.Current(), h.policy)

	p := h.pipelines.Get(id)
	orderID, err := p.Submit(c.Request.Context(), snap, quote)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotReady):
			// a readiness rejection leaves the pipeline untouched; report
			// whatever state it was already in
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": p.State().Status, "error": err.Error()})
		case errors.Is(err, checkout.ErrInFlight):
			c.JSON(http.StatusConflict, gin.H{"status": checkout.StatusSubmitting, "error": err.Error()})
		default:
			logging.From(c).Error("checkout failed", "session_id", id, "error", err)
			c.JSON(http.StatusBadGateway, p.State())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": checkout.StatusSuccess, "orderId": orderID})
}

func (h *CartHandler) CheckoutStatus(c *gin.Context) {
	id, _ := h.session(c)
	c.JSON(http.StatusOK, h.pipelines.Get(id).State())
}
