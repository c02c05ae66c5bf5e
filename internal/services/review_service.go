package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// ReviewService handles product reviews. New reviews are approved on
// submission; admins can pull one from the storefront via SetApproval.
type ReviewService interface {
	Submit(ctx context.Context, review *models.Review) error
	ListForProduct(ctx context.Context, companyID, productID uuid.UUID, limit, offset int) ([]*models.Review, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Review, error)
	SetApproval(ctx context.Context, companyID, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	RatingSummary(ctx context.Context, companyID, productID uuid.UUID) (float64, int, error)
}

type reviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

func (s *reviewService) Submit(ctx context.Context, review *models.Review) error {
	// The product must belong to the company the request resolved to.
	if _, err := s.productRepo.GetByID(ctx, review.CompanyID, review.ProductID); err != nil {
		return ErrProductNotFound
	}

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.IsApproved = true
	return s.reviewRepo.Create(ctx, review)
}

func (s *reviewService) ListForProduct(ctx context.Context, companyID, productID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return s.reviewRepo.ListApprovedByProduct(ctx, companyID, productID, limit, offset)
}

func (s *reviewService) ListForCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	return s.reviewRepo.ListByCompany(ctx, companyID, limit, offset)
}

func (s *reviewService) SetApproval(ctx context.Context, companyID, id uuid.UUID, approved bool) error {
	return s.reviewRepo.SetApproval(ctx, companyID, id, approved)
}

func (s *reviewService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.reviewRepo.Delete(ctx, companyID, id)
}

func (s *reviewService) RatingSummary(ctx context.Context, companyID, productID uuid.UUID) (float64, int, error) {
	return s.reviewRepo.AverageRating(ctx, companyID, productID)
}
