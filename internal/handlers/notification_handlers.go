package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/middleware"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// NotificationHandlers handles the admin activity feed
type NotificationHandlers struct {
	notificationService services.NotificationService
}

func NewNotificationHandlers(notificationService services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

// Feed handles GET /admin/notifications
func (h *NotificationHandlers) Feed(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	feed, err := h.notificationService.Feed(c.Request().Context(), tenant.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to load notifications")
	}
	return c.JSON(http.StatusOK, feed)
}

// MarkRead handles PATCH /admin/notifications/:id
func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "notification ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.notificationService.MarkRead(c.Request().Context(), tenant.ID, id); err != nil {
		if err == pgx.ErrNoRows {
			return common.SendNotFoundError(c, "Notification")
		}
		return common.SendServerError(c, "Failed to update notification")
	}
	return c.JSON(http.StatusOK, map[string]bool{"read": true})
}

// MarkAllRead handles POST /admin/notifications/read-all
func (h *NotificationHandlers) MarkAllRead(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	if err := h.notificationService.MarkAllRead(c.Request().Context(), tenant.ID); err != nil {
		return common.SendServerError(c, "Failed to update notifications")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "All notifications marked read"})
}
