package handler

import "github.com/gin-gonic/gin"

type Routes struct {
	Quotes  *QuoteHandler
	Catalog *CatalogHandler
	Health  *HealthHandler
	Admin   *AdminHandler
}

// Register mounts every endpoint. extra middleware applies to the public
// API group and to the admin group; /health is left bare for probes.
// The admin group has no authentication of its own, so deployments should
// keep /admin off the public listener.
func (rt Routes) Register(router *gin.Engine, extra ...gin.HandlerFunc) {
	router.GET("/health", rt.Health.Health)

	api := router.Group("/api/v1", extra...)
	{
		api.POST("/quotes", rt.Quotes.Create)
		api.POST("/quotes/batch", rt.Quotes.CreateBatch)
		api.GET("/quotes", rt.Quotes.List)
		api.GET("/quotes/stats", rt.Quotes.Stats)
		api.GET("/quotes/:id", rt.Quotes.Get)
		api.GET("/quotes/:id/report", rt.Quotes.Report)

		api.GET("/catalog/sectors", rt.Catalog.Sectors)
		api.GET("/catalog/states", rt.Catalog.States)
		api.GET("/catalog/terms", rt.Catalog.Terms)
	}

	admin := router.Group("/admin", extra...)
	admin.POST("/bundle/reload", rt.Admin.ReloadBundle)
}
