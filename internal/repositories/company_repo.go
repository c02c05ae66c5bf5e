package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

// ErrSlugTaken is returned when a create or update collides with an
// existing slug.
var ErrSlugTaken = errors.New("slug already in use")

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetBySlug(ctx context.Context, slug string) (*models.Company, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Company, error)
	GetByCustomDomain(ctx context.Context, domain string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, limit, offset int) ([]*models.Company, error)
	Count(ctx context.Context) (int, error)
}

type companyRepo struct {
	db DB
}

func NewCompanyRepo(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

const companyColumns = `id, name, slug, custom_domain, subdomain, logo, primary_color, hero_image, paystack_secret_key, paystack_public_key, seo_title, seo_description, status, created_at, updated_at`

func scanCompany(row pgx.Row) (*models.Company, error) {
	company := &models.Company{}
	err := row.Scan(&company.ID, &company.Name, &company.Slug, &company.CustomDomain, &company.Subdomain, &company.Logo, &company.PrimaryColor, &company.HeroImage, &company.PaystackSecretKey, &company.PaystackPublicKey, &company.SEOTitle, &company.SEODescription, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, slug, custom_domain, subdomain, logo, primary_color, hero_image, paystack_secret_key, paystack_public_key, seo_title, seo_description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.Slug, company.CustomDomain, company.Subdomain, company.Logo, company.PrimaryColor, company.HeroImage, company.PaystackSecretKey, company.PaystackPublicKey, company.SEOTitle, company.SEODescription, company.Status)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return scanCompany(r.db.QueryRow(ctx, query, id))
}

func (r *companyRepo) GetBySlug(ctx context.Context, slug string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE slug = $1`
	return scanCompany(r.db.QueryRow(ctx, query, slug))
}

func (r *companyRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE subdomain = $1`
	return scanCompany(r.db.QueryRow(ctx, query, subdomain))
}

func (r *companyRepo) GetByCustomDomain(ctx context.Context, domain string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE custom_domain = $1`
	return scanCompany(r.db.QueryRow(ctx, query, domain))
}

func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $1, slug = $2, custom_domain = $3, subdomain = $4, logo = $5, primary_color = $6, hero_image = $7, paystack_secret_key = $8, paystack_public_key = $9, seo_title = $10, seo_description = $11, updated_at = NOW()
		WHERE id = $12
	`
	_, err := r.db.Exec(ctx, query, company.Name, company.Slug, company.CustomDomain, company.Subdomain, company.Logo, company.PrimaryColor, company.HeroImage, company.PaystackSecretKey, company.PaystackPublicKey, company.SEOTitle, company.SEODescription, company.ID)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *companyRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE companies SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *companyRepo) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func (r *companyRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count)
	return count, err
}

// isUniqueViolation reports a Postgres unique constraint error (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
