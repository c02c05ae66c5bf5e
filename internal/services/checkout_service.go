package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

// CheckoutInput is the storefront checkout request after binding.
type CheckoutInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	City            string
	State           string
	Zip             string
	UserID          *uuid.UUID
	Lines           []CheckoutLine
}

type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
	Size      *string
	Color     *string
}

// CheckoutResult carries what the storefront needs to hand the customer
// to the payment page.
type CheckoutResult struct {
	Success    bool      `json:"success"`
	OrderID    uuid.UUID `json:"order_id"`
	Reference  string    `json:"reference"`
	PaymentURL string    `json:"paymentUrl"`
	Amount     int64     `json:"amount"`
}

// CheckoutService runs the reserve, initialize, record pipeline. Stock
// is held before payment starts and given back when payment setup
// fails, so a customer is never charged for units that are gone.
type CheckoutService interface {
	Checkout(ctx context.Context, company *models.Company, input *CheckoutInput) (*CheckoutResult, error)
}

type checkoutService struct {
	productRepo   repositories.ProductRepository
	orderRepo     repositories.OrderRepository
	inventory     InventoryService
	paystack      PaystackService
	notifications NotificationService
	// platformFee is the flat transaction charge in minor units routed
	// to platformSubaccount when a company settles on its own key.
	platformFee        int64
	platformSubaccount string
}

func NewCheckoutService(
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	inventory InventoryService,
	paystack PaystackService,
	notifications NotificationService,
	platformFee int64,
	platformSubaccount string,
) CheckoutService {
	return &checkoutService{
		productRepo:        productRepo,
		orderRepo:          orderRepo,
		inventory:          inventory,
		paystack:           paystack,
		notifications:      notifications,
		platformFee:        platformFee,
		platformSubaccount: platformSubaccount,
	}
}

// NewReference builds a payment reference: TXN, the current unix
// millisecond timestamp, and a 9-character alphanumeric suffix.
func NewReference() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), random.String(9, random.Alphanumeric))
}

func (s *checkoutService) Checkout(ctx context.Context, company *models.Company, input *CheckoutInput) (*CheckoutResult, error) {
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	// Price from the catalog, never from the client.
	items := make([]models.OrderItem, 0, len(input.Lines))
	reservations := make([]ReservationLine, 0, len(input.Lines))
	var total int64

	for _, line := range input.Lines {
		product, err := s.productRepo.GetByID(ctx, company.ID, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", line.ProductID)
		}

		unitPrice := product.Price
		if product.DiscountPercent != nil && *product.DiscountPercent > 0 {
			unitPrice = product.Price - product.Price*int64(*product.DiscountPercent)/100
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     unitPrice,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
		reservations = append(reservations, ReservationLine{ProductID: line.ProductID, Quantity: line.Quantity})
		total += unitPrice * int64(line.Quantity)
	}

	if err := s.inventory.CheckAvailability(ctx, company.ID, reservations); err != nil {
		return nil, err
	}

	if err := s.inventory.Reserve(ctx, company.ID, reservations); err != nil {
		return nil, err
	}

	reference := NewReference()

	initReq := &InitializeTransactionRequest{
		Email:     input.CustomerEmail,
		Amount:    total,
		Reference: reference,
		Metadata: map[string]interface{}{
			"company_id":    company.ID.String(),
			"customer_name": input.CustomerName,
		},
	}
	// Companies on their own Paystack account settle directly; the
	// platform takes a flat charge routed to its subaccount. Paystack
	// rejects bearer=subaccount without a subaccount code, so the fee
	// is only attached when one is configured.
	if company.PaystackSecretKey != nil && *company.PaystackSecretKey != "" {
		initReq.SecretKey = *company.PaystackSecretKey
		if s.platformFee > 0 && s.platformSubaccount != "" {
			initReq.Subaccount = s.platformSubaccount
			initReq.TransactionCharge = s.platformFee
			initReq.Bearer = "subaccount"
		}
	}

	initResp, err := s.paystack.InitializeTransaction(ctx, initReq)
	if err != nil {
		s.inventory.Release(ctx, company.ID, reservations)
		return nil, fmt.Errorf("payment initialization failed: %w", err)
	}

	order := &models.Order{
		ID:              uuid.New(),
		Reference:       reference,
		CompanyID:       company.ID,
		UserID:          input.UserID,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		City:            input.City,
		State:           input.State,
		Zip:             input.Zip,
		Items:           items,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.inventory.Release(ctx, company.ID, reservations)
		log.Printf("ERROR: failed to persist order %s after payment init: %v", reference, err)
		return nil, fmt.Errorf("failed to create order")
	}

	return &CheckoutResult{
		Success:    true,
		OrderID:    order.ID,
		Reference:  reference,
		PaymentURL: initResp.AuthorizationURL,
		Amount:     total,
	}, nil
}
