package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string, paidAt *time.Time) error
	// MarkPaidByReference flips an order to completed and stamps paid_at,
	// but only when it is not already completed. The returned bool is
	// false when the order was already completed, which makes webhook
	// replays harmless.
	MarkPaidByReference(ctx context.Context, reference string, paidAt time.Time) (*models.Order, bool, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, filter *models.OrderSearchFilter) ([]*models.Order, error)
	ListByUserAndCompany(ctx context.Context, companyID, userID uuid.UUID, limit, offset int) ([]*models.Order, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	TotalRevenue(ctx context.Context, companyID uuid.UUID) (int64, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, reference, company_id, user_id, customer_name, customer_email, customer_phone, shipping_address, city, state, zip, items, total_amount, status, paid_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(&order.ID, &order.Reference, &order.CompanyID, &order.UserID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.ShippingAddress, &order.City, &order.State, &order.Zip, &order.Items, &order.TotalAmount, &order.Status, &order.PaidAt, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, reference, company_id, user_id, customer_name, customer_email, customer_phone, shipping_address, city, state, zip, items, total_amount, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.Reference, order.CompanyID, order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.ShippingAddress, order.City, order.State, order.Zip, order.Items, order.TotalAmount, order.Status, order.PaidAt)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1 AND id = $2`
	return scanOrder(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *orderRepo) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE reference = $1`
	return scanOrder(r.db.QueryRow(ctx, query, reference))
}

func (r *orderRepo) UpdateStatus(ctx context.Context, companyID, id uuid.UUID, status string, paidAt *time.Time) error {
	var err error
	if paidAt != nil {
		query := `UPDATE orders SET status = $1, paid_at = $2, updated_at = NOW() WHERE company_id = $3 AND id = $4`
		_, err = r.db.Exec(ctx, query, status, paidAt, companyID, id)
	} else {
		query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE company_id = $2 AND id = $3`
		_, err = r.db.Exec(ctx, query, status, companyID, id)
	}
	return err
}

func (r *orderRepo) MarkPaidByReference(ctx context.Context, reference string, paidAt time.Time) (*models.Order, bool, error) {
	query := `
		UPDATE orders
		SET status = 'completed', paid_at = $2, updated_at = NOW()
		WHERE reference = $1 AND status <> 'completed'
		RETURNING ` + orderColumns + `
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, reference, paidAt))
	if err == pgx.ErrNoRows {
		// Either the reference is unknown or the order is already paid.
		existing, lookupErr := r.GetByReference(ctx, reference)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return order, true, nil
}

func (r *orderRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1`
	args := []interface{}{companyID}
	conditionCount := 1

	if filter.Status != nil && *filter.Status != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND status = $%d`, conditionCount)
		args = append(args, *filter.Status)
	}

	queryBase += ` ORDER BY created_at DESC`
	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepo) ListByUserAndCompany(ctx context.Context, companyID, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE company_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, companyID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE company_id = $1`, companyID).Scan(&count)
	return count, err
}

func (r *orderRepo) TotalRevenue(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE company_id = $1 AND status = 'completed'`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&total)
	return total, err
}
