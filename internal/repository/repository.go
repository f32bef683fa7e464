package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Jamolkhon5/portfolio/internal/models"
)

var (
	ErrDuplicateLead = errors.New("lead already exists")
	ErrLeadNotFound  = errors.New("lead not found")
)

const uniqueViolation = "23505"

// Schema создает таблицу заявок
const Schema = `
        CREATE TABLE IF NOT EXISTS leads (
            id UUID PRIMARY KEY,
            name VARCHAR(200) NOT NULL,
            email VARCHAR(320) NOT NULL,
            subject VARCHAR(200) NOT NULL,
            message TEXT NOT NULL,
            status VARCHAR(50) NOT NULL DEFAULT 'new',
            client_ip VARCHAR(64) NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("error creating leads table: %w", err)
	}
	return nil
}

// SaveLead сохраняет заявку. Пустые id, статус и время заполняются здесь.
func (r *Repository) SaveLead(ctx context.Context, lead *models.Lead) error {
	prepareLead(lead)

	query := `
        INSERT INTO leads (id, name, email, subject, message, status, client_ip, created_at)
        VALUES (:id, :name, :email, :subject, :message, :status, :client_ip, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, lead); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateLead
		}
		return fmt.Errorf("error saving lead: %w", err)
	}
	return nil
}

func (r *Repository) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	query := `
        SELECT id, name, email, subject, message, status, client_ip, created_at
        FROM leads
        WHERE id = $1`

	var lead models.Lead
	if err := r.db.GetContext(ctx, &lead, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("error loading lead: %w", err)
	}
	return &lead, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func prepareLead(lead *models.Lead) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
