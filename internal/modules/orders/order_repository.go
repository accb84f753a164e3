package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-hail-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the order repository,
// including the predicate-guarded statements the lifecycle reconciler runs.
type RepositoryInterface interface {
	Create(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error)
	FindByID(ctx context.Context, orderID int) (*models.Order, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error)
	ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error)
	UpdateStatus(ctx context.Context, orderID int, allowedFrom []string, to string) error
	AssignDriver(ctx context.Context, orderID, driverID int) error
	Delete(ctx context.Context, orderID int) error

	CancelExpired(ctx context.Context, olderThan time.Time) ([]models.ExpiredOrder, error)
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	CountExpiredPending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `id, user_id, date, from_address, to_address, from_lat, from_lng, to_lat, to_lng,
	expected_price, type, distance, notes, no_passengers, user_name, user_phone, status,
	driver_id, payment_way, car_type, pink_mode`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Date, &o.From, &o.To, &o.FromLat, &o.FromLng, &o.ToLat, &o.ToLng,
		&o.ExpectedPrice, &o.Type, &o.Distance, &o.Notes, &o.NoPassengers, &o.UserName, &o.UserPhone,
		&o.Status, &o.DriverID, &o.PaymentWay, &o.CarType, &o.PinkMode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

// Create inserts a new order in the pending status.
func (r *Repository) Create(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	query := `
		INSERT INTO orders (user_id, date, from_address, to_address, from_lat, from_lng, to_lat, to_lng,
			expected_price, type, distance, notes, no_passengers, status, payment_way, car_type, pink_mode)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, 'pending', NULLIF($13, ''), $14, $15)
		RETURNING ` + orderColumns

	row := r.db.QueryRow(ctx, query,
		userID, req.From, req.To, req.FromLat, req.FromLng, req.ToLat, req.ToLng,
		req.ExpectedPrice, req.Type, req.Distance, req.Notes, req.NoPassengers,
		req.PaymentWay, req.CarType, req.PinkMode,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repo.CreateOrder: %w", err)
	}
	return order, nil
}

// FindByID retrieves a single order by its ID.
func (r *Repository) FindByID(ctx context.Context, orderID int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repo.FindByID: %w", err)
	}
	return order, nil
}

func (r *Repository) list(ctx context.Context, where string, args []interface{}, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY date DESC LIMIT %d OFFSET %d`,
		orderColumns, where, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ListOrders.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ListOrders.Scan: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ListOrders.Rows: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ListOrders.Count: %w", err)
	}
	return out, total, nil
}

// ListAll retrieves orders with pagination, newest first.
func (r *Repository) ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error) {
	return r.list(ctx, "", nil, page, limit)
}

// ListByUserID retrieves one user's orders with pagination, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	return r.list(ctx, "WHERE user_id = $1", []interface{}{userID}, page, limit)
}

// UpdateStatus moves an order to a new status, conditioned on its current
// status being one of allowedFrom. The predicate is evaluated inside the
// UPDATE itself, so a concurrent transition (or a sweeper) that already moved
// the order simply leaves this statement with zero rows.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int, allowedFrom []string, to string) error {
	query := `
		UPDATE orders
		SET status = $1
		WHERE id = $2 AND status = ANY($3)`

	cmd, err := r.db.Exec(ctx, query, to, orderID, allowedFrom)
	if err != nil {
		return fmt.Errorf("repo.UpdateStatus: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Distinguish a missing order from an illegal transition.
		if _, err := r.FindByID(ctx, orderID); err != nil {
			return err
		}
		return models.ErrInvalidStatusTransition
	}
	return nil
}

// AssignDriver attaches a driver to an order.
func (r *Repository) AssignDriver(ctx context.Context, orderID, driverID int) error {
	query := `UPDATE orders SET driver_id = $1 WHERE id = $2`
	cmd, err := r.db.Exec(ctx, query, driverID, orderID)
	if err != nil {
		return fmt.Errorf("repo.AssignDriver: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an order outright.
func (r *Repository) Delete(ctx context.Context, orderID int) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repo.Delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CancelExpired rewrites every pending order created before olderThan to
// cancelled, in one conditional statement, and returns what it claimed
// together with the customer contact for the expiry notice. Rows another
// process already moved out of pending are not touched.
func (r *Repository) CancelExpired(ctx context.Context, olderThan time.Time) ([]models.ExpiredOrder, error) {
	query := `
		UPDATE orders o
		SET status = 'cancelled'
		FROM users u
		WHERE o.user_id = u.id
		  AND o.status = 'pending'
		  AND o.date < $1
		RETURNING o.id, o.user_id, u.email, u.nickname`

	rows, err := r.db.Query(ctx, query, olderThan)
	if err != nil {
		return nil, fmt.Errorf("repo.CancelExpired: %w", err)
	}
	defer rows.Close()

	var out []models.ExpiredOrder
	for rows.Next() {
		var e models.ExpiredOrder
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.UserName); err != nil {
			return nil, fmt.Errorf("repo.CancelExpired scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CancelExpired rows: %w", err)
	}
	return out, nil
}

// DeleteExpired hard-deletes pending orders older than the given age. The
// cutoff is computed by the database's own clock, and the status predicate is
// re-evaluated row by row inside the DELETE, so rows already cancelled or
// deleted by the other sweep are skipped.
func (r *Repository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM orders
		WHERE status = 'pending'
		  AND date < NOW() - make_interval(secs => $1)`

	cmd, err := r.db.Exec(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("repo.DeleteExpired: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// CountExpiredPending reports how many pending orders have outlived the
// threshold without any sweep claiming them yet.
func (r *Repository) CountExpiredPending(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE status = 'pending'
		  AND date < NOW() - make_interval(secs => $1)`

	var n int64
	if err := r.db.QueryRow(ctx, query, olderThan.Seconds()).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.CountExpiredPending: %w", err)
	}
	return n, nil
}
