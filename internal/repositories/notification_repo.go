package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListLatest(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, companyID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, companyID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, companyID uuid.UUID) error
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, company_id, title, message, type, read, link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, notification.ID, notification.CompanyID, notification.Title, notification.Message, notification.Type, notification.Read, notification.Link)
	return err
}

func (r *notificationRepo) ListLatest(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, company_id, title, message, type, read, link, created_at
		FROM notifications
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Title, &n.Message, &n.Type, &n.Read, &n.Link, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE company_id = $1 AND read = FALSE`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, companyID, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE company_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, companyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, companyID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE company_id = $1 AND read = FALSE`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}

func (r *notificationRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	query := `DELETE FROM notifications WHERE created_at < NOW() - ($1 || ' days')::interval`
	tag, err := r.db.Exec(ctx, query, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
