package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// FormHandler exposes the shared add/edit form and search term of a
// QuoteManager. Every client of the server sees the same form.
type FormHandler struct {
	manager *app.QuoteManager
}

// NewFormHandler creates a form handler.
func NewFormHandler(manager *app.QuoteManager) *FormHandler {
	return &FormHandler{manager: manager}
}

type searchRequest struct {
	Search string `json:"search"`
}

type visibleResponse struct {
	dto.QuoteListResponse

	Form dto.FormResponse `json:"form"`
}

// GetView handles GET /api/v1/view: the visible quotes and the form.
func (h *FormHandler) GetView(c *gin.Context) {
	quotes, err := h.manager.Visible(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, visibleResponse{
		QuoteListResponse: dto.NewQuoteListResponse(quotes, h.manager.Search()),
		Form:              dto.NewFormResponse(h.manager.Form()),
	})
}

// SetSearch handles PUT /api/v1/view/search.
func (h *FormHandler) SetSearch(c *gin.Context) {
	var req searchRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	if err := h.manager.SetSearch(c.Request.Context(), req.Search); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.GetView(c)
}

// GetForm handles GET /api/v1/form.
func (h *FormHandler) GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewFormResponse(h.manager.Form()))
}

// OpenAdd handles POST /api/v1/form/add.
func (h *FormHandler) OpenAdd(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewFormResponse(h.manager.OpenAdd(c.Request.Context())))
}

// OpenEdit handles POST /api/v1/form/edit/:id.
func (h *FormHandler) OpenEdit(c *gin.Context) {
	id, ok := quoteID(c)
	if !ok {
		return
	}

	form, err := h.manager.OpenEdit(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFormResponse(form))
}

// ChangeField handles PATCH /api/v1/form. A non-empty category must belong
// to the closed set and is stored in canonical form. A change while the
// form is closed is ignored and the closed form is returned.
func (h *FormHandler) ChangeField(c *gin.Context) {
	var req dto.FieldChange
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	field, err := domain.ParseField(req.Field)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	value := req.Value
	if field == domain.FieldCategory && strings.TrimSpace(value) != "" {
		category, err := domain.ParseCategory(value)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		value = category.String()
	}

	form, err := h.manager.ChangeField(c.Request.Context(), field, value)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewFormResponse(form))
}

// Save handles POST /api/v1/form/save and returns the committed quote.
// When the edited quote has been deleted meanwhile and missing ids are
// ignored, nothing is committed and the answer is 204, as for PUT.
func (h *FormHandler) Save(c *gin.Context) {
	quote, committed, err := h.manager.Save(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if !committed {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Cancel handles POST /api/v1/form/cancel.
func (h *FormHandler) Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewFormResponse(h.manager.Cancel(c.Request.Context())))
}

// RegisterFormRoutes registers the view routes on rg and the form routes
// on write.
func (h *FormHandler) RegisterFormRoutes(rg, write *gin.RouterGroup) {
	rg.GET("/view", h.GetView)
	rg.GET("/form", h.GetForm)

	write.PUT("/view/search", h.SetSearch)
	write.POST("/form/add", h.OpenAdd)
	write.POST("/form/edit/:id", h.OpenEdit)
	write.PATCH("/form", h.ChangeField)
	write.POST("/form/save", h.Save)
	write.POST("/form/cancel", h.Cancel)
}
