package drivers

import (
	"context"
	"errors"
	"fmt"

	"ride-hail-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface is the read-only driver directory. The tracking core
// uses it to resolve a driver id to its display record; onboarding and the
// rest of driver CRUD live in another service.
type RepositoryInterface interface {
	FindByID(ctx context.Context, driverID int) (*models.Driver, error)
	ListApproved(ctx context.Context) ([]*models.Driver, error)
}

// Repository is a PostgreSQL implementation of RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new driver directory repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// FindByID returns the directory record for one driver.
func (r *Repository) FindByID(ctx context.Context, driverID int) (*models.Driver, error) {
	query := `
		SELECT id, driver_fullname, email, phone, gender, status
		FROM drivers
		WHERE id = $1`

	d := &models.Driver{}
	err := r.db.QueryRow(ctx, query, driverID).
		Scan(&d.ID, &d.FullName, &d.Email, &d.Phone, &d.Gender, &d.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDriverNotFound
		}
		return nil, fmt.Errorf("repo.FindByID: %w", err)
	}
	return d, nil
}

// ListApproved returns every driver cleared to take orders.
func (r *Repository) ListApproved(ctx context.Context) ([]*models.Driver, error) {
	query := `
		SELECT id, driver_fullname, email, phone, gender, status
		FROM drivers
		WHERE status = 'approved'
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repo.ListApproved: %w", err)
	}
	defer rows.Close()

	var out []*models.Driver
	for rows.Next() {
		d := &models.Driver{}
		if err := rows.Scan(&d.ID, &d.FullName, &d.Email, &d.Phone, &d.Gender, &d.Status); err != nil {
			return nil, fmt.Errorf("repo.ListApproved scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ListApproved rows: %w", err)
	}
	return out, nil
}
