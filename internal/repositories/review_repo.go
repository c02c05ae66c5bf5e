package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListApprovedByProduct(ctx context.Context, companyID, productID uuid.UUID, limit, offset int) ([]*models.Review, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Review, error)
	SetApproval(ctx context.Context, companyID, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	AverageRating(ctx context.Context, companyID, productID uuid.UUID) (float64, int, error)
}

type reviewRepo struct {
	db DB
}

func NewReviewRepo(db DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, company_id, user_id, user_name, rating, text, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	_, err := r.db.Exec(ctx, query, review.ID, review.ProductID, review.CompanyID, review.UserID, review.UserName, review.Rating, review.Text, review.IsApproved)
	return err
}

func (r *reviewRepo) ListApprovedByProduct(ctx context.Context, companyID, productID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	query := `
		SELECT id, product_id, company_id, user_id, user_name, rating, text, is_approved, created_at
		FROM reviews
		WHERE company_id = $1 AND product_id = $2 AND is_approved = TRUE
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, companyID, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *reviewRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Review, error) {
	query := `
		SELECT id, product_id, company_id, user_id, user_name, rating, text, is_approved, created_at
		FROM reviews
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]*models.Review, error) {
	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(&review.ID, &review.ProductID, &review.CompanyID, &review.UserID, &review.UserName, &review.Rating, &review.Text, &review.IsApproved, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *reviewRepo) SetApproval(ctx context.Context, companyID, id uuid.UUID, approved bool) error {
	query := `UPDATE reviews SET is_approved = $1 WHERE company_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, approved, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reviewRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE company_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, companyID, id)
	return err
}

func (r *reviewRepo) AverageRating(ctx context.Context, companyID, productID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews
		WHERE company_id = $1 AND product_id = $2 AND is_approved = TRUE
	`
	err := r.db.QueryRow(ctx, query, companyID, productID).Scan(&avg, &count)
	return avg, count, err
}
