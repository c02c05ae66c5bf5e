package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/middleware"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// CheckoutHandlers handles HTTP requests for storefront checkout
type CheckoutHandlers struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandlers(checkoutService services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkoutService: checkoutService}
}

// Checkout handles POST /store/:company/checkout. Guests may check out;
// a logged-in customer gets the order attached to their account.
func (h *CheckoutHandlers) Checkout(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	var req struct {
		CustomerName    string `json:"customer_name"`
		CustomerEmail   string `json:"customer_email"`
		CustomerPhone   string `json:"customer_phone"`
		ShippingAddress string `json:"shipping_address"`
		City            string `json:"city"`
		State           string `json:"state"`
		Zip             string `json:"zip"`
		Items           []struct {
			ProductID string  `json:"product_id"`
			Quantity  int     `json:"quantity"`
			Size      *string `json:"size"`
			Color     *string `json:"color"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return common.SendValidationError(c, "customer_name", err.Error())
	}
	if err := common.ValidateEmail(req.CustomerEmail); err != nil {
		return common.SendValidationError(c, "customer_email", err.Error())
	}
	if err := common.ValidateRequiredString(req.ShippingAddress, "shipping_address"); err != nil {
		return common.SendValidationError(c, "shipping_address", err.Error())
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "order must contain at least one item")
	}

	lines := make([]services.CheckoutLine, 0, len(req.Items))
	for i, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, fmt.Sprintf("items[%d].product_id", i))
		if err != nil {
			return common.SendValidationError(c, "items", err.Error())
		}
		if err := common.ValidateQuantity(item.Quantity); err != nil {
			return common.SendValidationError(c, "items", err.Error())
		}
		lines = append(lines, services.CheckoutLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	input := &services.CheckoutInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		State:           req.State,
		Zip:             req.Zip,
		Lines:           lines,
	}
	if userID, ok := common.GetUserIDFromContext(c.Request().Context()); ok && userID != uuid.Nil {
		input.UserID = &userID
	}

	result, err := h.checkoutService.Checkout(c.Request().Context(), tenant, input)
	if err != nil {
		var stockErr *services.InsufficientStockError
		if errors.As(err, &stockErr) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", stockErr.Error(), map[string]string{
				"product":   stockErr.ProductName,
				"available": fmt.Sprintf("%d", stockErr.Available),
			}))
		}
		return common.SendUpstreamError(c, "Unable to start payment, no items were charged")
	}

	return c.JSON(http.StatusOK, result)
}
