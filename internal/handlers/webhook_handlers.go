package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// WebhookHandlers handles payment gateway callbacks
type WebhookHandlers struct {
	paystackService services.PaystackService
	orderService    services.OrderService
}

func NewWebhookHandlers(paystackService services.PaystackService, orderService services.OrderService) *WebhookHandlers {
	return &WebhookHandlers{
		paystackService: paystackService,
		orderService:    orderService,
	}
}

type paystackWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Status    string `json:"status"`
	} `json:"data"`
}

// PaystackWebhook handles POST /webhooks/paystack. The signature is an
// HMAC-SHA512 of the raw body; anything that fails verification is
// rejected before the payload is even parsed.
func (h *WebhookHandlers) PaystackWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	signature := c.Request().Header.Get("x-paystack-signature")
	if !h.paystackService.VerifyWebhookSignature(body, signature) {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("SIGNATURE_INVALID", "Webhook signature verification failed", nil))
	}

	var event paystackWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed webhook payload")
	}

	// Only successful charges move orders. Everything else is
	// acknowledged so the gateway stops resending it.
	if event.Event != "charge.success" {
		return c.JSON(http.StatusOK, map[string]string{"message": "Event ignored"})
	}

	order, err := h.orderService.ReconcilePayment(c.Request().Context(), event.Data.Reference)
	if err != nil {
		switch err {
		case services.ErrOrderNotFound:
			// Unknown reference. Acknowledge so the gateway does not
			// retry forever, but keep a trace.
			log.Printf("WARN: webhook for unknown reference %s", event.Data.Reference)
			return c.JSON(http.StatusOK, map[string]string{"message": "Reference not recognized"})
		case services.ErrPaymentNotConfirmed:
			return echo.NewHTTPError(http.StatusBadRequest, "Gateway did not confirm this charge")
		default:
			log.Printf("ERROR: webhook reconciliation failed for %s: %v", event.Data.Reference, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process webhook")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Order marked as paid",
		"reference": order.Reference,
		"status":    order.Status,
	})
}
