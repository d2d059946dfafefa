package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) Sectors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.Sectors()})
}

func (h *CatalogHandler) States(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.States()})
}

func (h *CatalogHandler) Terms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": model.TermMenu})
}
