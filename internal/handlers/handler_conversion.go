package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
)

// ConversionHandler holds dependencies for conversion routes.
type ConversionHandler struct {
	conversionSvc portssvc.ConversionSvcFacade
}

// NewConversionHandler creates a new conversion handler.
func NewConversionHandler(conversionSvc portssvc.ConversionSvcFacade) *ConversionHandler {
	return &ConversionHandler{conversionSvc: conversionSvc}
}

// registerConversionRoutes wires the conversion endpoints onto the API group.
func registerConversionRoutes(rg *gin.RouterGroup, conversionSvc portssvc.ConversionSvcFacade) {
	h := NewConversionHandler(conversionSvc)
	conversions := rg.Group("/conversions")
	{
		conversions.POST("/purchase-request/:id", h.PurchaseRequestToOrder)
		conversions.POST("/price-request/:id", h.PriceRequestToOrder)
		conversions.GET("/quote/:id/project-seed", h.QuoteToProjectSeed)
		conversions.POST("/quote/:id/project", h.QuoteToProject)
		conversions.POST("/documents/:id/revision", h.NewRevision)
	}
}

// PurchaseRequestToOrder godoc
// @Summary Convert a purchase request into a purchase order
// @Description Copies lines verbatim, applies default lead time and payment terms, marks the source DONE
// @Tags conversions
// @Accept json
// @Produce json
// @Param id path string true "Purchase request ID"
// @Param overrides body dto.ConvertPurchaseRequestRequest false "Conversion overrides"
// @Success 201 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Source status not eligible"
// @Router /conversions/purchase-request/{id} [post]
func (h *ConversionHandler) PurchaseRequestToOrder(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.ConvertPurchaseRequestRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	order, err := h.conversionSvc.PurchaseRequestToOrder(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(order))
}

// PriceRequestToOrder godoc
// @Summary Convert an awarded price request into a purchase order
// @Description Re-prices lines proportionally to quantity share against the negotiated final price
// @Tags conversions
// @Accept json
// @Produce json
// @Param id path string true "Price request ID"
// @Param award body dto.AwardPriceRequestRequest true "Award and negotiated terms"
// @Success 201 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Source status not eligible"
// @Router /conversions/price-request/{id} [post]
func (h *ConversionHandler) PriceRequestToOrder(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.AwardPriceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	order, err := h.conversionSvc.PriceRequestToOrder(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(order))
}

// QuoteToProjectSeed godoc
// @Summary Preview the project payload of an approved quote
// @Description Derives the project-creation payload without mutating anything
// @Tags conversions
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.ProjectSeedResponse
// @Router /conversions/quote/{id}/project-seed [get]
func (h *ConversionHandler) QuoteToProjectSeed(c *gin.Context) {
	seed, err := h.conversionSvc.QuoteToProjectSeed(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectSeedResponse(seed))
}

// QuoteToProject godoc
// @Summary Convert an approved quote into a project
// @Description Hands the seed to the project collaborator; the quote completes only after creation is confirmed
// @Tags conversions
// @Produce json
// @Param id path string true "Quote ID"
// @Success 201 {object} dto.QuoteConversionResponse
// @Router /conversions/quote/{id}/project [post]
func (h *ConversionHandler) QuoteToProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	projectID, seed, err := h.conversionSvc.QuoteToProject(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.QuoteConversionResponse{
		ProjectID: projectID,
		Seed:      dto.ToProjectSeedResponse(seed),
	})
}

// NewRevision godoc
// @Summary Create a revision of a document
// @Description Spawns a DRAFT copy under the next revision suffix, applying price adjustments
// @Tags conversions
// @Accept json
// @Produce json
// @Param id path string true "Source document ID"
// @Param modifications body dto.NewRevisionRequest false "Revision modifications"
// @Success 201 {object} dto.DocumentResponse
// @Router /conversions/documents/{id}/revision [post]
func (h *ConversionHandler) NewRevision(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.NewRevisionRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	revision, err := h.conversionSvc.NewRevision(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(revision))
}
