package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// QuoteHandler serves the quote collection.
type QuoteHandler struct {
	service  *app.QuoteService
	importer *app.Importer
}

// NewQuoteHandler creates a quote handler. importer may be nil, in which
// case imports answer 503.
func NewQuoteHandler(service *app.QuoteService, importer *app.Importer) *QuoteHandler {
	return &QuoteHandler{
		service:  service,
		importer: importer,
	}
}

// ListQuotes handles GET /api/v1/quotes.
// The optional search parameter filters case-insensitively on text and author.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param search query string false "Search term"
// @Success 200 {object} dto.QuoteListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var q dto.ListQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	quotes, err := h.service.List(c.Request.Context(), q.Search)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteListResponse(quotes, q.Search))
}

// GetQuote handles GET /api/v1/quotes/:id.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	quote, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// CreateQuote handles POST /api/v1/quotes.
//
// @Summary Add a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	quote, err := h.service.Add(c.Request.Context(), req.Draft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+strconv.Itoa(quote.ID))
	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// UpdateQuote handles PUT /api/v1/quotes/:id.
// An unknown id answers 204 without changes unless missing ids are reported,
// in which case it answers 404.
//
// @Summary Replace a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param quote body dto.QuoteRequest true "Quote"
// @Success 200 {object} dto.QuoteResponse
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	var req dto.QuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	quote := req.Draft().WithID(id)

	updated, err := h.service.Edit(c.Request.Context(), quote)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if !updated {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// DeleteQuote handles DELETE /api/v1/quotes/:id.
//
// @Summary Delete a quote
// @Tags quotes
// @Param id path int true "Quote ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	if _, err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ImportQuotes handles POST /api/v1/quotes/import.
//
// @Summary Import random quotes from the upstream quote service
// @Tags quotes
// @Produce json
// @Param count query int true "Number of quotes to fetch"
// @Param best_effort query bool false "Keep partial results"
// @Success 200 {object} dto.ImportResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	if h.importer == nil {
		dto.HandleError(c, domain.NewUnavailableError("quote-service", "import source is not configured"))
		return
	}

	var q dto.ImportQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	result, err := h.importer.Import(c.Request.Context(), app.ImportRequest{
		Count:      q.Count,
		BestEffort: q.BestEffort,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewImportResponse(result))
}

// ListCategories handles GET /api/v1/categories.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewCategoriesResponse())
}

// RegisterQuoteRoutes registers the read-only routes on rg and the mutating
// routes on write, which normally carries authentication.
func (h *QuoteHandler) RegisterQuoteRoutes(rg, write *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/quotes", h.ListQuotes)
	rg.GET("/quotes/:id", h.GetQuote)

	write.POST("/quotes", h.CreateQuote)
	write.POST("/quotes/import", h.ImportQuotes)
	write.PUT("/quotes/:id", h.UpdateQuote)
	write.DELETE("/quotes/:id", h.DeleteQuote)
}

// quoteID parses the :id path parameter, writing a 400 when it is not an
// integer.
func quoteID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "quote id must be an integer")
		return 0, false
	}

	return id, true
}
