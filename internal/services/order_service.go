package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
)

var (
	// ErrOrderNotFound is returned when a reference or ID resolves to
	// nothing visible to the caller.
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentNotConfirmed is returned when the gateway's own record
	// of the transaction does not say success.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by gateway")
	// ErrInvalidTransition is returned under the strict policy when the
	// requested status cannot follow the current one.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// TransitionPolicy controls how much the admin status endpoint trusts
// its caller. Permissive allows any valid status; strict enforces the
// forward-only lifecycle.
type TransitionPolicy string

const (
	PolicyPermissive TransitionPolicy = "permissive"
	PolicyStrict     TransitionPolicy = "strict"
)

// strictTransitions is the forward-only lifecycle graph.
var strictTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCompleted, models.OrderStatusCancelled, models.OrderStatusFailed},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCompleted},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted},
	models.OrderStatusCompleted:  {models.OrderStatusShipped, models.OrderStatusDelivered},
}

type OrderService interface {
	// ReconcilePayment takes a gateway-confirmed charge reference,
	// verifies it server side and marks the order paid. Safe to call
	// repeatedly for the same reference.
	ReconcilePayment(ctx context.Context, reference string) (*models.Order, error)
	AdminSetStatus(ctx context.Context, companyID, orderID uuid.UUID, status string) (*models.Order, error)
	GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*models.Order, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, filter *models.OrderSearchFilter) ([]*models.Order, error)
	ListForUser(ctx context.Context, companyID, userID uuid.UUID, limit, offset int) ([]*models.Order, error)
	Stats(ctx context.Context, companyID uuid.UUID) (*OrderStats, error)
}

// OrderStats is the admin dashboard summary for one store.
type OrderStats struct {
	TotalOrders  int   `json:"total_orders"`
	TotalRevenue int64 `json:"total_revenue"`
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	companyRepo   repositories.CompanyRepository
	userRepo      repositories.UserRepository
	paystack      PaystackService
	mailer        MailerService
	notifications NotificationService
	policy        TransitionPolicy
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	companyRepo repositories.CompanyRepository,
	userRepo repositories.UserRepository,
	paystack PaystackService,
	mailer MailerService,
	notifications NotificationService,
	policy TransitionPolicy,
) OrderService {
	if policy == "" {
		policy = PolicyPermissive
	}
	return &orderService{
		orderRepo:     orderRepo,
		companyRepo:   companyRepo,
		userRepo:      userRepo,
		paystack:      paystack,
		mailer:        mailer,
		notifications: notifications,
		policy:        policy,
	}
}

func (s *orderService) ReconcilePayment(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetByReference(ctx, reference)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	company, err := s.companyRepo.GetByID(ctx, order.CompanyID)
	if err != nil {
		return nil, err
	}

	// Second verification against the gateway. The webhook signature
	// alone is not treated as proof of payment.
	verification, err := s.paystack.VerifyTransaction(ctx, reference, common.SafeString(company.PaystackSecretKey))
	if err != nil {
		return nil, fmt.Errorf("gateway verification failed: %w", err)
	}
	if verification.Status != "success" {
		return nil, ErrPaymentNotConfirmed
	}
	if verification.Amount != order.TotalAmount {
		return nil, fmt.Errorf("gateway amount %d does not match order amount %d", verification.Amount, order.TotalAmount)
	}

	updated, marked, err := s.orderRepo.MarkPaidByReference(ctx, reference, time.Now())
	if err != nil {
		return nil, err
	}
	if !marked {
		// Replayed webhook. Already paid, nothing more to do.
		return updated, nil
	}

	s.sendPaymentEmails(ctx, company, updated)
	link := "/admin/orders/" + updated.ID.String()
	s.notifications.Emit(ctx, company.ID, models.NotificationTypeOrder,
		"New sale",
		fmt.Sprintf("Order %s paid: %d items, total %d", updated.Reference, len(updated.Items), updated.TotalAmount),
		&link)

	return updated, nil
}

func (s *orderService) AdminSetStatus(ctx context.Context, companyID, orderID uuid.UUID, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, companyID, orderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if s.policy == PolicyStrict && !transitionAllowed(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	var paidAt *time.Time
	if status == models.OrderStatusCompleted && order.PaidAt == nil {
		now := time.Now()
		paidAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, companyID, orderID, status, paidAt); err != nil {
		return nil, err
	}

	if status == models.OrderStatusShipped && order.Status != models.OrderStatusShipped {
		s.sendBestEffort(ctx, order.CustomerEmail,
			"Your order is on the way",
			fmt.Sprintf("Hi %s, your order %s has shipped and is on its way to %s.", order.CustomerName, order.Reference, order.City))
	}

	order.Status = status
	if paidAt != nil {
		order.PaidAt = paidAt
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, companyID, orderID)
	if err == pgx.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	return order, err
}

func (s *orderService) ListByCompany(ctx context.Context, companyID uuid.UUID, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	return s.orderRepo.ListByCompany(ctx, companyID, filter)
}

func (s *orderService) ListForUser(ctx context.Context, companyID, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.ListByUserAndCompany(ctx, companyID, userID, limit, offset)
}

func (s *orderService) Stats(ctx context.Context, companyID uuid.UUID) (*OrderStats, error) {
	count, err := s.orderRepo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.TotalRevenue(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return &OrderStats{TotalOrders: count, TotalRevenue: revenue}, nil
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range strictTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *orderService) sendPaymentEmails(ctx context.Context, company *models.Company, order *models.Order) {
	s.sendBestEffort(ctx, order.CustomerEmail,
		fmt.Sprintf("Order confirmed at %s", company.Name),
		fmt.Sprintf("Hi %s, your payment for order %s was received. We are getting your items ready.", order.CustomerName, order.Reference))

	admins, err := s.userRepo.ListAdminsByCompany(ctx, company.ID)
	if err != nil {
		log.Printf("WARN: could not look up admins for company %s: %v", company.ID, err)
		return
	}
	for _, admin := range admins {
		s.sendBestEffort(ctx, admin.Email,
			"New sale",
			fmt.Sprintf("Order %s for %d was just paid by %s.", order.Reference, order.TotalAmount, order.CustomerName))
	}
}

func (s *orderService) sendBestEffort(ctx context.Context, to, subject, body string) {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		log.Printf("WARN: email to %s not delivered: %v", to, err)
	}
}
