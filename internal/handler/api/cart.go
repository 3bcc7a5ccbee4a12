package api

import (
	"context"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartCommands commands.CartCommands
	cartQueries  queries.CartQueries
}

func NewCartHandler(cartCommands commands.CartCommands, cartQueries queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

// @Summary Get cart
// @Description Get the current cart with campaign pricing applied
// @Tags cart
// @Produce json
// @Success 200 {object} resdto.CartResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	view, err := h.cartQueries.GetCart(c.Request.Context(), cartID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

// @Summary Add item
// @Description Add a product (or one of its variations) to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body reqdto.AddItemRequest true "Item to add"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	var req reqdto.AddItemRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	err := h.cartCommands.AddItem(c.Request.Context(), cartID, req.ProductID, req.VariationID)
	if err != nil {
		h.renderCartError(c, err)
		return
	}

	h.GetCart(c)
}

// @Summary Remove item
// @Description Remove a cart line entirely
// @Tags cart
// @Produce json
// @Param productID path string true "Product ID"
// @Param variation_id query string false "Variation ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/items/{productID} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.mutateLine(c, h.cartCommands.RemoveItem)
}

// @Summary Increment quantity
// @Description Add one unit to an existing cart line
// @Tags cart
// @Produce json
// @Param productID path string true "Product ID"
// @Param variation_id query string false "Variation ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /cart/items/{productID}/increment [post]
func (h *CartHandler) IncrementQuantity(c *gin.Context) {
	h.mutateLine(c, h.cartCommands.IncrementQuantity)
}

// @Summary Decrement quantity
// @Description Remove one unit from an existing cart line, never below one
// @Tags cart
// @Produce json
// @Param productID path string true "Product ID"
// @Param variation_id query string false "Variation ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/items/{productID}/decrement [post]
func (h *CartHandler) DecrementQuantity(c *gin.Context) {
	h.mutateLine(c, h.cartCommands.DecrementQuantity)
}

// @Summary Clear cart
// @Description Remove every line from the cart
// @Tags cart
// @Produce json
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	if err := h.cartCommands.Clear(c.Request.Context(), cartID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) mutateLine(
	c *gin.Context,
	op func(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error,
) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	productID, err := uuid.Parse(c.Param("productID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product ID format", nil)
		return
	}

	var variationID *uuid.UUID
	if raw := c.Query("variation_id"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, parseErr, "Invalid variation ID format", nil)
			return
		}
		variationID = &id
	}

	if err := op(c.Request.Context(), cartID, productID, variationID); err != nil {
		h.renderCartError(c, err)
		return
	}

	h.GetCart(c)
}

func (h *CartHandler) renderCartError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrProductNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Product not found", nil)
	case errs.Is(err, commands.ErrVariationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Variation not found", nil)
	case errs.Is(err, commands.ErrCartLimitExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err, "Cart line limit reached", nil)
	case errs.Is(err, commands.ErrStockExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err, "Not enough stock for the requested quantity", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
