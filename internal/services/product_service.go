package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/caching"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

var ErrProductNotFound = errors.New("product not found")

const productCacheTTL = 5 * time.Minute

// ProductService manages a company's catalog.
type ProductService interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	cache       caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, cache caching.CacheService) ProductService {
	return &productService{productRepo: productRepo, cache: cache}
}

func (s *productService) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.InStock = product.StockCount > 0
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, companyID, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, companyID, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, companyID, product, productCacheTTL); err != nil {
		log.Printf("WARN: product cache write failed: %v", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, product *models.Product) error {
	product.InStock = product.StockCount > 0
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, product.CompanyID, product.ID); err != nil {
		log.Printf("WARN: product cache invalidation failed: %v", err)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, companyID, id); err != nil {
		log.Printf("WARN: product cache invalidation failed: %v", err)
	}
	return nil
}

func (s *productService) List(ctx context.Context, companyID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	return s.productRepo.List(ctx, companyID, filter)
}
