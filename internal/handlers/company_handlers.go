package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/middleware"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// CompanyHandlers handles HTTP requests for store profiles
type CompanyHandlers struct {
	companyService services.CompanyService
}

func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

type companyRequest struct {
	Name              string  `json:"name"`
	Slug              string  `json:"slug"`
	CustomDomain      *string `json:"custom_domain"`
	Subdomain         *string `json:"subdomain"`
	Logo              *string `json:"logo"`
	PrimaryColor      *string `json:"primary_color"`
	HeroImage         *string `json:"hero_image"`
	PaystackSecretKey *string `json:"paystack_secret_key"`
	PaystackPublicKey *string `json:"paystack_public_key"`
	SEOTitle          *string `json:"seo_title"`
	SEODescription    *string `json:"seo_description"`
}

func (h *CompanyHandlers) validateCompany(req *companyRequest) error {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	return common.ValidateSlug(req.Slug)
}

// GetCompany handles GET /companies/:identifier. Public; resolves a
// slug first, then falls back to a UUID.
func (h *CompanyHandlers) GetCompany(c echo.Context) error {
	company, err := h.companyService.ResolveIdentifier(c.Request().Context(), c.Param("identifier"))
	if err != nil {
		if err == services.ErrCompanyNotFound {
			return common.SendNotFoundError(c, "Store")
		}
		return common.SendServerError(c, "Failed to load store")
	}
	return c.JSON(http.StatusOK, company)
}

// CreateCompany handles POST /companies (super admin)
func (h *CompanyHandlers) CreateCompany(c echo.Context) error {
	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateCompany(&req); err != nil {
		return common.SendValidationError(c, "company", err.Error())
	}

	company := &models.Company{
		Name:              req.Name,
		Slug:              req.Slug,
		CustomDomain:      req.CustomDomain,
		Subdomain:         req.Subdomain,
		Logo:              req.Logo,
		PrimaryColor:      req.PrimaryColor,
		HeroImage:         req.HeroImage,
		PaystackSecretKey: req.PaystackSecretKey,
		PaystackPublicKey: req.PaystackPublicKey,
		SEOTitle:          req.SEOTitle,
		SEODescription:    req.SEODescription,
	}

	if err := h.companyService.Create(c.Request().Context(), company); err != nil {
		if err == services.ErrSlugTaken {
			return common.SendConflictError(c, "That slug is already in use")
		}
		return common.SendServerError(c, "Failed to create store")
	}
	return c.JSON(http.StatusCreated, company)
}

// UpdateCompany handles PUT /admin/company. The company admin edits the
// store resolved for this request.
func (h *CompanyHandlers) UpdateCompany(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	var req companyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateCompany(&req); err != nil {
		return common.SendValidationError(c, "company", err.Error())
	}

	tenant.Name = req.Name
	tenant.Slug = req.Slug
	tenant.CustomDomain = req.CustomDomain
	tenant.Subdomain = req.Subdomain
	tenant.Logo = req.Logo
	tenant.PrimaryColor = req.PrimaryColor
	tenant.HeroImage = req.HeroImage
	if req.PaystackSecretKey != nil {
		tenant.PaystackSecretKey = req.PaystackSecretKey
	}
	if req.PaystackPublicKey != nil {
		tenant.PaystackPublicKey = req.PaystackPublicKey
	}
	tenant.SEOTitle = req.SEOTitle
	tenant.SEODescription = req.SEODescription

	if err := h.companyService.UpdateProfile(c.Request().Context(), tenant); err != nil {
		if err == services.ErrSlugTaken {
			return common.SendConflictError(c, "That slug is already in use")
		}
		return common.SendServerError(c, "Failed to update store")
	}
	return c.JSON(http.StatusOK, tenant)
}

// SetStatus handles PATCH /companies/:identifier/status (super admin)
func (h *CompanyHandlers) SetStatus(c echo.Context) error {
	company, err := h.companyService.ResolveIdentifier(c.Request().Context(), c.Param("identifier"))
	if err != nil {
		if err == services.ErrCompanyNotFound {
			return common.SendNotFoundError(c, "Store")
		}
		return common.SendServerError(c, "Failed to load store")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateCompanyStatus(req.Status); err != nil {
		return common.SendValidationError(c, "status", err.Error())
	}

	if err := h.companyService.SetStatus(c.Request().Context(), company.ID, req.Status); err != nil {
		return common.SendServerError(c, "Failed to update store status")
	}
	company.Status = req.Status
	return c.JSON(http.StatusOK, company)
}

// ListCompanies handles GET /companies (super admin)
func (h *CompanyHandlers) ListCompanies(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	companies, err := h.companyService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list stores")
	}
	if companies == nil {
		companies = []*models.Company{}
	}
	return c.JSON(http.StatusOK, companies)
}
