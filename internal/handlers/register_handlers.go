package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopmetal/workdoc_app/internal/core/services"
	"github.com/shopmetal/workdoc_app/internal/middleware"
)

// RegisterHandlers wires every engine route group. Actor identification is
// required on mutating groups; the authentication layer in front of this
// service is responsible for vetting the forwarded actor id.
func RegisterHandlers(engine *gin.Engine, container *services.Container) {
	engine.GET("/", Home)

	api := engine.Group("/api/v1")
	api.Use(middleware.ActorMiddleware(false))

	registerDocumentRoutes(api, container.Document)
	registerConversionRoutes(api, container.Conversion)
	registerLedgerRoutes(api, container.Ledger)
	registerReconcilerRoutes(api, container.Reconciler)
}
