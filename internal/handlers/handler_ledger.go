package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// LedgerHandler holds dependencies for labor ledger routes.
type LedgerHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledgerSvc portssvc.LedgerSvcFacade) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// registerLedgerRoutes wires the ledger endpoints onto the API group.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	h := NewLedgerHandler(ledgerSvc)
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/punch-in", h.PunchIn)
		ledger.POST("/punch-out", h.PunchOut)
		ledger.GET("/active/:employeeID", h.ActiveEntry)
		ledger.GET("/work-orders/:id/summary", h.WorkOrderSummary)
	}
}

// PunchIn godoc
// @Summary Open a labor session
// @Description Opens a punch session; an employee may hold at most one open session
// @Tags ledger
// @Accept json
// @Produce json
// @Param session body dto.PunchInRequest true "Session to open"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 409 {object} map[string]string "Employee already punched in"
// @Router /ledger/punch-in [post]
func (h *LedgerHandler) PunchIn(c *gin.Context) {
	var req dto.PunchInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	entry, err := h.ledgerSvc.PunchIn(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry))
}

// PunchOut godoc
// @Summary Close the employee's open labor session
// @Description Computes hours and cost and closes the session
// @Tags ledger
// @Accept json
// @Produce json
// @Param session body dto.PunchOutRequest true "Session to close"
// @Success 200 {object} dto.SessionSummaryResponse
// @Failure 409 {object} map[string]string "No open session"
// @Router /ledger/punch-out [post]
func (h *LedgerHandler) PunchOut(c *gin.Context) {
	var req dto.PunchOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	summary, err := h.ledgerSvc.PunchOut(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ActiveEntry godoc
// @Summary Get the employee's open session
// @Description Returns the open session with live elapsed hours and cost estimate
// @Tags ledger
// @Produce json
// @Param employeeID path string true "Employee ID"
// @Success 200 {object} dto.ActiveEntryResponse
// @Success 204 "No open session"
// @Router /ledger/active/{employeeID} [get]
func (h *LedgerHandler) ActiveEntry(c *gin.Context) {
	active, err := h.ledgerSvc.ActiveEntry(c.Request.Context(), c.Param("employeeID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if active == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, active)
}

// WorkOrderSummary godoc
// @Summary Aggregate labor booked on a work order
// @Tags ledger
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} dto.WorkOrderEffortResponse
// @Router /ledger/work-orders/{id}/summary [get]
func (h *LedgerHandler) WorkOrderSummary(c *gin.Context) {
	effort, err := h.ledgerSvc.HoursAndCostFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkOrderEffortResponse(effort))
}
