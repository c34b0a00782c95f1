package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// ReconcilerHandler holds dependencies for reconciliation routes.
type ReconcilerHandler struct {
	reconcilerSvc portssvc.ReconcilerSvcFacade
}

// NewReconcilerHandler creates a new reconciler handler.
func NewReconcilerHandler(reconcilerSvc portssvc.ReconcilerSvcFacade) *ReconcilerHandler {
	return &ReconcilerHandler{reconcilerSvc: reconcilerSvc}
}

// registerReconcilerRoutes wires the reconciliation endpoints onto the API group.
func registerReconcilerRoutes(rg *gin.RouterGroup, reconcilerSvc portssvc.ReconcilerSvcFacade) {
	h := NewReconcilerHandler(reconcilerSvc)
	reconciler := rg.Group("/reconciler")
	{
		reconciler.POST("/recompute/:id", h.RecomputeProgress)
		reconciler.POST("/recompute-all", h.RecomputeAll)
		reconciler.POST("/synchronize", h.Synchronize)
		reconciler.POST("/purge", h.PurgeOrphans)
		reconciler.POST("/work-orders/:id/done", h.MarkDone)
	}
}

// RecomputeProgress godoc
// @Summary Recompute a work order's completion percentage
// @Tags reconciler
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} dto.ProgressResponse
// @Router /reconciler/recompute/{id} [post]
func (h *ReconcilerHandler) RecomputeProgress(c *gin.Context) {
	workOrderID := c.Param("id")
	pct, err := h.reconcilerSvc.RecomputeProgress(c.Request.Context(), workOrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProgressResponse{WorkOrderID: workOrderID, Percentage: pct})
}

// RecomputeAll godoc
// @Summary Recompute completion for every open work order
// @Description Failing work orders are skipped, not fatal to the batch
// @Tags reconciler
// @Produce json
// @Success 200 {object} dto.RecomputeAllResponse
// @Router /reconciler/recompute-all [post]
func (h *ReconcilerHandler) RecomputeAll(c *gin.Context) {
	result, err := h.reconcilerSvc.RecomputeAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Synchronize godoc
// @Summary Repair the ledger and re-derive work-order statuses
// @Description Fixes entries missing cost, advances VALIDATED orders with booked labor, then recomputes progress
// @Tags reconciler
// @Produce json
// @Success 200 {object} dto.SynchronizeResponse
// @Router /reconciler/synchronize [post]
func (h *ReconcilerHandler) Synchronize(c *gin.Context) {
	result, err := h.reconcilerSvc.Synchronize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PurgeOrphans godoc
// @Summary Purge orphaned time entries
// @Description Removes stale open entries, zero-hour closed entries and entries referencing missing work orders
// @Tags reconciler
// @Accept json
// @Produce json
// @Param options body dto.PurgeRequest false "Purge options"
// @Success 200 {object} dto.PurgeResponse
// @Router /reconciler/purge [post]
func (h *ReconcilerHandler) PurgeOrphans(c *gin.Context) {
	var req dto.PurgeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var maxOpenAge time.Duration
	if req.MaxOpenAgeHours != nil {
		maxOpenAge = time.Duration(*req.MaxOpenAgeHours) * time.Hour
	}
	result, err := h.reconcilerSvc.PurgeOrphans(c.Request.Context(), maxOpenAge)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MarkDone godoc
// @Summary Complete a work order
// @Description Idempotent; pins progress at 100 percent and releases held reservations
// @Tags reconciler
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param completion body dto.MarkDoneRequest false "Completion comment"
// @Success 200 {object} map[string]string
// @Router /reconciler/work-orders/{id}/done [post]
func (h *ReconcilerHandler) MarkDone(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.MarkDoneRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.reconcilerSvc.MarkDone(c.Request.Context(), c.Param("id"), actorID, req.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "done"})
}
