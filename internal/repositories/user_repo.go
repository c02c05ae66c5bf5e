package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListAdminsByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	ClearExpiredTokens(ctx context.Context) (int64, error)
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, company_id, email_verified, verification_token, verification_token_expiry, reset_password_token, reset_password_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role, &user.CompanyID, &user.EmailVerified, &user.VerificationToken, &user.VerificationTokenExpiry, &user.ResetPasswordToken, &user.ResetPasswordTokenExpiry, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, company_id, email_verified, verification_token, verification_token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Role, user.CompanyID, user.EmailVerified, user.VerificationToken, user.VerificationTokenExpiry)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1 AND reset_password_token_expiry > NOW()
	`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE verification_token = $1 AND verification_token_expiry > NOW()
	`
	return scanUser(r.db.QueryRow(ctx, query, token))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, role = $3, company_id = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, user.Name, strings.ToLower(user.Email), user.Role, user.CompanyID, user.ID)
	return err
}

func (r *userRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	query := `UPDATE users SET reset_password_token = $1, reset_password_token_expiry = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.Exec(ctx, query, token, expiry, id)
	return err
}

func (r *userRepo) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET reset_password_token = NULL, reset_password_token_expiry = NULL, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, verification_token = NULL, verification_token_expiry = NULL, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, passwordHash, id)
	return err
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *userRepo) ListAdminsByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'admin' AND company_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// ClearExpiredTokens nulls out reset and verification tokens past their
// expiry. Run periodically by the scheduler.
func (r *userRepo) ClearExpiredTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET reset_password_token = CASE WHEN reset_password_token_expiry <= NOW() THEN NULL ELSE reset_password_token END,
		    reset_password_token_expiry = CASE WHEN reset_password_token_expiry <= NOW() THEN NULL ELSE reset_password_token_expiry END,
		    verification_token = CASE WHEN verification_token_expiry <= NOW() THEN NULL ELSE verification_token END,
		    verification_token_expiry = CASE WHEN verification_token_expiry <= NOW() THEN NULL ELSE verification_token_expiry END
		WHERE reset_password_token_expiry <= NOW() OR verification_token_expiry <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
