package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// LowStockThreshold is the stock count at or below which a STOCK
// notification is raised after a reservation.
const LowStockThreshold = 5

// InsufficientStockError reports which product could not be reserved and
// how many units remain.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.ProductName, e.Available)
}

// ReservationLine is one product/quantity pair in a checkout.
type ReservationLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// InventoryService owns stock movements. All mutation goes through
// atomic decrement-if-sufficient updates so concurrent checkouts can
// never drive stock negative.
type InventoryService interface {
	CheckAvailability(ctx context.Context, companyID uuid.UUID, lines []ReservationLine) error
	// Reserve decrements stock for every line, rolling back earlier
	// lines when a later one fails.
	Reserve(ctx context.Context, companyID uuid.UUID, lines []ReservationLine) error
	Release(ctx context.Context, companyID uuid.UUID, lines []ReservationLine)
}

type inventoryService struct {
	productRepo   repositories.ProductRepository
	notifications NotificationService
}

func NewInventoryService(productRepo repositories.ProductRepository, notifications NotificationService) InventoryService {
	return &inventoryService{
		productRepo:   productRepo,
		notifications: notifications,
	}
}

// CheckAvailability is a fail-fast read before payment is attempted. It
// is advisory only; Reserve re-checks atomically.
func (s *inventoryService) CheckAvailability(ctx context.Context, companyID uuid.UUID, lines []ReservationLine) error {
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, companyID, line.ProductID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return &InsufficientStockError{ProductID: line.ProductID, ProductName: "unknown product", Available: 0}
			}
			return err
		}
		if product.StockCount < line.Quantity {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockCount,
			}
		}
	}
	return nil
}

func (s *inventoryService) Reserve(ctx context.Context, companyID uuid.UUID, lines []ReservationLine) error {
	reserved := make([]ReservationLine, 0, len(lines))

	for _, line := range lines {
		remaining, err := s.productRepo.ReserveStock(ctx, companyID, line.ProductID, line.Quantity)
		if err != nil {
			// Give back what was already taken before reporting.
			s.Release(ctx, companyID, reserved)

			if err == pgx.ErrNoRows {
				return s.insufficientError(ctx, companyID, line.ProductID)
			}
			return err
		}
		reserved = append(reserved, line)

		if remaining <= LowStockThreshold {
			s.emitLowStock(ctx, companyID, line.ProductID, remaining)
		}
	}
	return nil
}

func (s *inventoryService) Release(ctx context.Context, companyID uuid.UUID, lines []ReservationLine) {
	for _, line := range lines {
		if err := s.productRepo.RestoreStock(ctx, companyID, line.ProductID, line.Quantity); err != nil {
			log.Printf("ERROR: failed to restore %d units of product %s for company %s: %v", line.Quantity, line.ProductID, companyID, err)
		}
	}
}

// insufficientError re-reads the product to report its name and the
// stock it actually has left.
func (s *inventoryService) insufficientError(ctx context.Context, companyID, productID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, companyID, productID)
	if err != nil {
		return &InsufficientStockError{ProductID: productID, ProductName: "unknown product", Available: 0}
	}
	return &InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Available:   product.StockCount,
	}
}

func (s *inventoryService) emitLowStock(ctx context.Context, companyID, productID uuid.UUID, remaining int) {
	product, err := s.productRepo.GetByID(ctx, companyID, productID)
	name := productID.String()
	if err == nil {
		name = product.Name
	}
	s.notifications.Emit(ctx, companyID, models.NotificationTypeStock,
		"Low stock",
		fmt.Sprintf("%s is down to %d units", name, remaining),
		nil)
}
