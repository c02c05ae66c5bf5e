package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// PlatformHandlers serves the super-admin surface: users across all
// tenants, global settings and platform stats.
type PlatformHandlers struct {
	platformService services.PlatformService
	userRepo        repositories.UserRepository
}

func NewPlatformHandlers(platformService services.PlatformService, userRepo repositories.UserRepository) *PlatformHandlers {
	return &PlatformHandlers{
		platformService: platformService,
		userRepo:        userRepo,
	}
}

// ListUsers handles GET /platform/users
func (h *PlatformHandlers) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	users, err := h.userRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list users")
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUserRole handles PATCH /platform/users/:id
func (h *PlatformHandlers) UpdateUserRole(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "user ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Role      string  `json:"role"`
		CompanyID *string `json:"company_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Role != models.RoleCustomer && req.Role != models.RoleAdmin && req.Role != models.RoleSuperAdmin {
		return common.SendValidationError(c, "role", "role must be one of: customer, admin, super_admin")
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	user.Role = req.Role
	if req.CompanyID != nil && *req.CompanyID != "" {
		companyID, err := common.ValidateUUID(*req.CompanyID, "company ID")
		if err != nil {
			return common.SendValidationError(c, "company_id", err.Error())
		}
		user.CompanyID = &companyID
	} else if req.CompanyID != nil {
		user.CompanyID = nil
	}

	if err := h.userRepo.Update(c.Request().Context(), user); err != nil {
		return common.SendServerError(c, "Failed to update user")
	}
	return c.JSON(http.StatusOK, user)
}

// GetSettings handles GET /platform/settings
func (h *PlatformHandlers) GetSettings(c echo.Context) error {
	settings, err := h.platformService.Settings(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to load settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /platform/settings
func (h *PlatformHandlers) UpdateSettings(c echo.Context) error {
	var req struct {
		PlatformCommissionRate int    `json:"platform_commission_rate"`
		GlobalMaintenanceMode  bool   `json:"global_maintenance_mode"`
		SupportEmail           string `json:"support_email"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.PlatformCommissionRate < 0 || req.PlatformCommissionRate > 100 {
		return common.SendValidationError(c, "platform_commission_rate", "commission rate must be between 0 and 100")
	}
	if req.SupportEmail != "" {
		if err := common.ValidateEmail(req.SupportEmail); err != nil {
			return common.SendValidationError(c, "support_email", err.Error())
		}
	}

	settings := &models.PlatformSettings{
		ID:                     1,
		PlatformCommissionRate: req.PlatformCommissionRate,
		GlobalMaintenanceMode:  req.GlobalMaintenanceMode,
		SupportEmail:           req.SupportEmail,
	}
	if err := h.platformService.UpdateSettings(c.Request().Context(), settings); err != nil {
		return common.SendServerError(c, "Failed to update settings")
	}
	return c.JSON(http.StatusOK, settings)
}

// Stats handles GET /platform/stats
func (h *PlatformHandlers) Stats(c echo.Context) error {
	stats, err := h.platformService.Stats(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to load stats")
	}
	return c.JSON(http.StatusOK, stats)
}
