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

// ProductHandlers handles HTTP requests for the catalog
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           int64    `json:"price"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	Sizes           []string `json:"sizes"`
	Colors          []string `json:"colors"`
	StockCount      int      `json:"stock_count"`
	DiscountPercent *int     `json:"discount_percent"`
}

func (h *ProductHandlers) validateProduct(req *productRequest) error {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidatePositiveAmount(req.Price, "price"); err != nil {
		return err
	}
	if req.StockCount < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "stock count cannot be negative")
	}
	if req.DiscountPercent != nil && (*req.DiscountPercent < 0 || *req.DiscountPercent > 90) {
		return echo.NewHTTPError(http.StatusBadRequest, "discount must be between 0 and 90 percent")
	}
	return nil
}

// ListProducts handles GET /store/:company/products. Public catalog
// with optional search and category filters.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
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

	filter := &models.ProductSearchFilter{
		Query:    common.SanitizeSearchQuery(c.QueryParam("q")),
		Category: c.QueryParam("category"),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.productService.List(c.Request().Context(), tenant.ID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /store/:company/products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productService.GetByID(c.Request().Context(), tenant.ID, id)
	if err != nil {
		if err == services.ErrProductNotFound {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to load product")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /admin/products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateProduct(&req); err != nil {
		return err
	}

	product := &models.Product{
		CompanyID:       tenant.ID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		Image:           req.Image,
		Sizes:           req.Sizes,
		Colors:          req.Colors,
		StockCount:      req.StockCount,
		DiscountPercent: req.DiscountPercent,
	}

	if err := h.productService.Create(c.Request().Context(), product); err != nil {
		return common.SendServerError(c, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	existing, err := h.productService.GetByID(c.Request().Context(), tenant.ID, id)
	if err != nil {
		if err == services.ErrProductNotFound {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to load product")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateProduct(&req); err != nil {
		return err
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Category = req.Category
	existing.Image = req.Image
	existing.Sizes = req.Sizes
	existing.Colors = req.Colors
	existing.StockCount = req.StockCount
	existing.DiscountPercent = req.DiscountPercent

	if err := h.productService.Update(c.Request().Context(), existing); err != nil {
		return common.SendServerError(c, "Failed to update product")
	}
	return c.JSON(http.StatusOK, existing)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.productService.Delete(c.Request().Context(), tenant.ID, id); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
