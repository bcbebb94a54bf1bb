package http

import (
	"net/http"

	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only catalog views. Lists are empty (not
// errors) while the content source has never been reached.
type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(cat *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) ListDrinks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drinks": h.catalog.Current().Drinks})
}

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.catalog.Current().Packages})
}

func (h *CatalogHandler) ListAddons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"addons": h.catalog.Current().Addons})
}
