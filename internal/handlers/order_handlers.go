package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/middleware"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// ListOrders handles GET /admin/orders with an optional status filter
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	filter := &models.OrderSearchFilter{Limit: limit, Offset: offset}
	if status := c.QueryParam("status"); status != "" {
		if err := common.ValidateOrderStatus(status); err != nil {
			return common.SendValidationError(c, "status", err.Error())
		}
		filter.Status = &status
	}

	orders, err := h.orderService.ListByCompany(c.Request().Context(), tenant.ID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /admin/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	order, err := h.orderService.GetByID(c.Request().Context(), tenant.ID, id)
	if err != nil {
		if err == services.ErrOrderNotFound {
			return common.SendNotFoundError(c, "Order")
		}
		return common.SendServerError(c, "Failed to load order")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus handles PATCH /admin/orders/:id
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "order ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateOrderStatus(req.Status); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	order, err := h.orderService.AdminSetStatus(c.Request().Context(), tenant.ID, id, req.Status)
	if err != nil {
		if err == services.ErrOrderNotFound {
			return common.SendNotFoundError(c, "Order")
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendServerError(c, "Failed to update order")
	}
	return c.JSON(http.StatusOK, order)
}

// Stats handles GET /admin/stats
func (h *OrderHandlers) Stats(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	stats, err := h.orderService.Stats(c.Request().Context(), tenant.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to load stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// MyOrders handles GET /account/orders for the logged-in customer on
// the resolved store.
func (h *OrderHandlers) MyOrders(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	orders, err := h.orderService.ListForUser(c.Request().Context(), tenant.ID, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}
