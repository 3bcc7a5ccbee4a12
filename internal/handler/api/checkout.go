package api

import (
	"net/http"

	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/httperr"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
	}
}

// @Summary Validate cart
// @Description Reconcile the cart against authoritative stock and prices
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.ValidationResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout/validate [post]
func (h *CheckoutHandler) Validate(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	result, err := h.checkoutCommands.Validate(c.Request.Context(), cartID)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	// A corrected cart is still a successful validation; HasChanges tells the
	// client to re-render and re-trigger before checkout.
	c.JSON(http.StatusOK, resdto.FromValidationResult(result))
}

// @Summary Proceed to checkout
// @Description Validate once more and build the payment handoff on a clean cart
// @Tags checkout
// @Produce json
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 409 {object} map[string]any
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /checkout [post]
func (h *CheckoutHandler) Proceed(c *gin.Context) {
	cartID, ok := middleware.GetCartID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, nil, "Internal server error", nil)
		return
	}

	session, result, err := h.checkoutCommands.Proceed(c.Request.Context(), cartID)
	if err != nil {
		if errs.Is(err, commands.ErrCartChanged) && result != nil {
			httperr.AbortWithError(c, http.StatusConflict, err,
				"Cart changed during validation", resdto.FromValidationResult(result))
			return
		}
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCheckoutSession(session))
}

func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrCartEmpty):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cart is empty", nil)
	case errs.Is(err, commands.ErrValidationInFlight):
		httperr.AbortWithError(c, http.StatusConflict, err, "Cart validation already in progress", nil)
	case errs.Is(err, commands.ErrValidationFailed):
		// fail closed: a failed reconciliation never reaches payment
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Cart validation failed, please retry", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
