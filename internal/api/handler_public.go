package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetBrands returns all known vehicle brands.
func (h *Handler) GetBrands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"brands": h.refdata.Brands()})
}

// GetModels returns the models for one brand.
func (h *Handler) GetModels(c *gin.Context) {
	brand := c.Param("brand_name")
	models := h.refdata.ModelsForBrand(brand)
	if len(models) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no models found for brand " + brand})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// GetColors returns all known vehicle colors.
func (h *Handler) GetColors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"colors": h.refdata.Colors()})
}
