package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmetal/workdoc_app/internal/core/domain"
	portssvc "github.com/shopmetal/workdoc_app/internal/core/ports/services"
	"github.com/shopmetal/workdoc_app/internal/dto"
	"github.com/shopmetal/workdoc_app/internal/middleware"
)

// DocumentHandler holds dependencies for document routes.
type DocumentHandler struct {
	documentSvc portssvc.DocumentSvcFacade
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(documentSvc portssvc.DocumentSvcFacade) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// registerDocumentRoutes wires the document endpoints onto the API group.
func registerDocumentRoutes(rg *gin.RouterGroup, documentSvc portssvc.DocumentSvcFacade) {
	h := NewDocumentHandler(documentSvc)
	docs := rg.Group("/documents")
	{
		docs.POST("", h.CreateDocument)
		docs.GET("", h.ListDocuments)
		docs.GET("/statistics", h.Statistics)
		docs.GET("/next-number/:kind", h.NextNumber)
		docs.GET("/:id", h.GetDocument)
		docs.PUT("/:id/status", h.SetStatus)
		docs.PUT("/:id/lines", h.ReplaceLines)
		docs.POST("/:id/duplicate", h.DuplicateDocument)
		docs.POST("/:id/assignments", h.AssignEmployees)
		docs.POST("/:id/reservations", h.ReserveWorkCenters)
		docs.GET("/:id/scheduling", h.ListScheduling)
	}
}

// CreateDocument godoc
// @Summary Create a document
// @Description Creates a work document in DRAFT with a store-assigned number
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document to create"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} map[string]any "Validation failed"
// @Router /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid create document request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentSvc.CreateDocument(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// GetDocument godoc
// @Summary Get a document
// @Description Returns a document with its lines and audit trail
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documentSvc.GetDocumentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// ListDocuments godoc
// @Summary List documents
// @Description Lists document headers matching the given filters
// @Tags documents
// @Produce json
// @Param kind query string false "Document kind"
// @Param status query string false "Document status"
// @Param priority query string false "Document priority"
// @Param projectRef query string false "Project reference"
// @Param partnerRef query string false "Partner reference"
// @Param ownerRef query string false "Owner reference"
// @Param year query int false "Creation year"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListDocumentsResponse
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	var params dto.ListDocumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters: " + err.Error()})
		return
	}

	docs, err := h.documentSvc.ListDocuments(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListDocumentsResponse{Documents: dto.ToDocumentResponses(docs)})
}

// NextNumber godoc
// @Summary Preview the next document number
// @Description Returns the number the next document of this kind would receive
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind"
// @Success 200 {object} map[string]string
// @Router /documents/next-number/{kind} [get]
func (h *DocumentHandler) NextNumber(c *gin.Context) {
	number, err := h.documentSvc.NextNumber(c.Request.Context(), domain.DocumentKind(c.Param("kind")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number})
}

// SetStatus godoc
// @Summary Change a document's status
// @Description Moves a document forward through its lifecycle or cancels it
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param status body dto.SetStatusRequest true "Target status"
// @Success 200 {object} dto.DocumentResponse
// @Failure 409 {object} map[string]string "Transition not permitted"
// @Router /documents/{id}/status [put]
func (h *DocumentHandler) SetStatus(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentSvc.SetStatus(c.Request.Context(), c.Param("id"), domain.DocumentStatus(req.Status), actorID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// ReplaceLines godoc
// @Summary Replace a document's lines
// @Description Swaps the full line set and recomputes the document total
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param lines body dto.ReplaceLinesRequest true "New line set"
// @Success 200 {object} dto.DocumentResponse
// @Router /documents/{id}/lines [put]
func (h *DocumentHandler) ReplaceLines(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.ReplaceLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentSvc.ReplaceLines(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// DuplicateDocument godoc
// @Summary Duplicate a document
// @Description Copies a document into a new DRAFT under a fresh number
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Source document ID"
// @Param overrides body dto.DuplicateDocumentRequest false "Overrides"
// @Success 201 {object} dto.DocumentResponse
// @Router /documents/{id}/duplicate [post]
func (h *DocumentHandler) DuplicateDocument(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.DuplicateDocumentRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	doc, err := h.documentSvc.DuplicateDocument(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// Statistics godoc
// @Summary Document statistics
// @Description Aggregates document count and total amount per kind and status
// @Tags documents
// @Produce json
// @Success 200 {object} dto.StatisticsResponse
// @Router /documents/statistics [get]
func (h *DocumentHandler) Statistics(c *gin.Context) {
	stats, err := h.documentSvc.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.StatisticsResponse{Buckets: make([]dto.KindStatisticsResponse, len(stats))}
	for i, s := range stats {
		resp.Buckets[i] = dto.KindStatisticsResponse{
			Kind:        string(s.Kind),
			Status:      string(s.Status),
			Count:       s.Count,
			TotalAmount: s.TotalAmount,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// AssignEmployees godoc
// @Summary Assign employees to a work order
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param assignment body dto.AssignEmployeesRequest true "Employees to assign"
// @Success 201 {array} dto.AssignmentResponse
// @Router /documents/{id}/assignments [post]
func (h *DocumentHandler) AssignEmployees(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.AssignEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	assignments, err := h.documentSvc.AssignEmployees(c.Request.Context(), c.Param("id"), actorID, req.EmployeeRefs)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		resp[i] = dto.ToAssignmentResponse(&assignments[i])
	}
	c.JSON(http.StatusCreated, resp)
}

// ReserveWorkCenters godoc
// @Summary Reserve work centers for a work order
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param reservation body dto.ReserveWorkCentersRequest true "Work centers to reserve"
// @Success 201 {array} dto.ReservationResponse
// @Router /documents/{id}/reservations [post]
func (h *DocumentHandler) ReserveWorkCenters(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.ReserveWorkCentersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	reservations, err := h.documentSvc.ReserveWorkCenters(c.Request.Context(), c.Param("id"), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		resp[i] = dto.ToReservationResponse(&reservations[i])
	}
	c.JSON(http.StatusCreated, resp)
}

// ListScheduling godoc
// @Summary List a work order's assignments and reservations
// @Tags documents
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} map[string]any
// @Router /documents/{id}/scheduling [get]
func (h *DocumentHandler) ListScheduling(c *gin.Context) {
	assignments, reservations, err := h.documentSvc.ListScheduling(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	assignmentResp := make([]dto.AssignmentResponse, len(assignments))
	for i := range assignments {
		assignmentResp[i] = dto.ToAssignmentResponse(&assignments[i])
	}
	reservationResp := make([]dto.ReservationResponse, len(reservations))
	for i := range reservations {
		reservationResp[i] = dto.ToReservationResponse(&reservations[i])
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignmentResp, "reservations": reservationResp})
}
