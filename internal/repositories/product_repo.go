package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	List(ctx context.Context, companyID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error)
	// ReserveStock decrements stock only when enough remains. It returns
	// the stock count left after the decrement, or ErrNoRows when the
	// product is missing or the remaining stock is below quantity.
	ReserveStock(ctx context.Context, companyID, id uuid.UUID, quantity int) (int, error)
	RestoreStock(ctx context.Context, companyID, id uuid.UUID, quantity int) error
	ListLowStock(ctx context.Context, companyID uuid.UUID, threshold int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, company_id, name, description, price, category, image, sizes, colors, in_stock, stock_count, discount_percent, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.CompanyID, &product.Name, &product.Description, &product.Price, &product.Category, &product.Image, &product.Sizes, &product.Colors, &product.InStock, &product.StockCount, &product.DiscountPercent, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, company_id, name, description, price, category, image, sizes, colors, in_stock, stock_count, discount_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.CompanyID, product.Name, product.Description, product.Price, product.Category, product.Image, product.Sizes, product.Colors, product.InStock, product.StockCount, product.DiscountPercent)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND id = $2`
	return scanProduct(r.db.QueryRow(ctx, query, companyID, id))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4, image = $5, sizes = $6, colors = $7, in_stock = $8, stock_count = $9, discount_percent = $10, updated_at = NOW()
		WHERE company_id = $11 AND id = $12
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.Category, product.Image, product.Sizes, product.Colors, product.InStock, product.StockCount, product.DiscountPercent, product.CompanyID, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE company_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, companyID, id)
	return err
}

func (r *productRepo) List(ctx context.Context, companyID uuid.UUID, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1`
	args := []interface{}{companyID}
	conditionCount := 1

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Category != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, filter.Category)
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

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *productRepo) ReserveStock(ctx context.Context, companyID, id uuid.UUID, quantity int) (int, error) {
	// The WHERE guard makes decrement-if-sufficient a single atomic
	// statement. Concurrent reservations for the last units race on the
	// row lock; the loser matches zero rows.
	query := `
		UPDATE products
		SET stock_count = stock_count - $1,
		    in_stock = (stock_count - $1) > 0,
		    updated_at = NOW()
		WHERE company_id = $2 AND id = $3 AND stock_count >= $1
		RETURNING stock_count
	`
	var remaining int
	err := r.db.QueryRow(ctx, query, quantity, companyID, id).Scan(&remaining)
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (r *productRepo) RestoreStock(ctx context.Context, companyID, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock_count = stock_count + $1,
		    in_stock = TRUE,
		    updated_at = NOW()
		WHERE company_id = $2 AND id = $3
	`
	_, err := r.db.Exec(ctx, query, quantity, companyID, id)
	return err
}

func (r *productRepo) ListLowStock(ctx context.Context, companyID uuid.UUID, threshold int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1 AND stock_count <= $2
		ORDER BY stock_count ASC
	`
	rows, err := r.db.Query(ctx, query, companyID, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
