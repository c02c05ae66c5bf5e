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

// ReviewHandlers handles HTTP requests for product reviews
type ReviewHandlers struct {
	reviewService services.ReviewService
	authService   services.AuthService
}

func NewReviewHandlers(reviewService services.ReviewService, authService services.AuthService) *ReviewHandlers {
	return &ReviewHandlers{reviewService: reviewService, authService: authService}
}

// ListReviews handles GET /store/:company/products/:id/reviews. Only
// approved reviews are public.
func (h *ReviewHandlers) ListReviews(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset, err = common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	reviews, err := h.reviewService.ListForProduct(c.Request().Context(), tenant.ID, productID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list reviews")
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	average, count, err := h.reviewService.RatingSummary(c.Request().Context(), tenant.ID, productID)
	if err != nil {
		return common.SendServerError(c, "Failed to load rating summary")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reviews":        reviews,
		"average_rating": average,
		"review_count":   count,
	})
}

// SubmitReview handles POST /store/:company/products/:id/reviews.
// Requires a logged-in customer; the review is live immediately.
func (h *ReviewHandlers) SubmitReview(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "product ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRating(req.Rating); err != nil {
		return common.SendValidationError(c, "rating", err.Error())
	}

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	review := &models.Review{
		ProductID: productID,
		CompanyID: tenant.ID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Text:      common.SanitizeHTMLElement(req.Text),
	}

	if err := h.reviewService.Submit(c.Request().Context(), review); err != nil {
		if err == services.ErrProductNotFound {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to submit review")
	}
	return c.JSON(http.StatusCreated, review)
}

// ListCompanyReviews handles GET /admin/reviews, including unapproved
// submissions.
func (h *ReviewHandlers) ListCompanyReviews(c echo.Context) error {
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

	reviews, err := h.reviewService.ListForCompany(c.Request().Context(), tenant.ID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list reviews")
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

// SetApproval handles PATCH /admin/reviews/:id
func (h *ReviewHandlers) SetApproval(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "review ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.reviewService.SetApproval(c.Request().Context(), tenant.ID, id, req.Approved); err != nil {
		return common.SendNotFoundError(c, "Review")
	}
	return c.JSON(http.StatusOK, map[string]bool{"approved": req.Approved})
}

// DeleteReview handles DELETE /admin/reviews/:id
func (h *ReviewHandlers) DeleteReview(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Store")
	}

	id, err := common.ValidateUUID(c.Param("id"), "review ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.reviewService.Delete(c.Request().Context(), tenant.ID, id); err != nil {
		return common.SendServerError(c, "Failed to delete review")
	}
	return c.NoContent(http.StatusNoContent)
}
