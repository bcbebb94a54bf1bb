package http

import (
	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/http/middleware"
	"github.com/AutomationAlchemyst/balangconnect/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(oh *OrderHandler, ch *CartHandler, cath *CatalogHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Info("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/catalog/drinks", cath.ListDrinks)
		v1.GET("/catalog/packages", cath.ListPackages)
		v1.GET("/catalog/addons", cath.ListAddons)

		v1.GET("/cart", ch.GetCart)
		v1.DELETE("/cart", ch.ClearCart)
		v1.POST("/cart/drinks", ch.AddDrink)
		v1.DELETE("/cart/drinks/:id", ch.RemoveDrink)
		v1.PUT("/cart/package", ch.SelectPackage)
		v1.POST("/cart/addons", ch.AddAddon)
		v1.DELETE("/cart/addons/:id", ch.RemoveAddon)
		v1.POST("/cart/checkout", ch.Checkout)
		v1.GET("/cart/checkout", ch.CheckoutStatus)

		v1.POST("/orders", oh.CreateOrder)
		v1.GET("/orders/:id", oh.GetOrderByID)
	}

	return r
}
