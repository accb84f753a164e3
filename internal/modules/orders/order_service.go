package orders

import (
	"context"
	"fmt"

	"ride-hail-backend/internal/models"
)

// statusTransitions is the order state machine: for each target status, the
// statuses an order may come from. cancelled and Complete are terminal, so
// they appear as sources nowhere.
var statusTransitions = map[string][]string{
	models.OrderStatusApproved:  {models.OrderStatusPending},
	models.OrderStatusArrived:   {models.OrderStatusPending, models.OrderStatusApproved},
	models.OrderStatusComplete:  {models.OrderStatusPending, models.OrderStatusApproved, models.OrderStatusArrived},
	models.OrderStatusCancelled: {models.OrderStatusPending, models.OrderStatusApproved, models.OrderStatusArrived},
}

// ServiceInterface defines the order business operations.
type ServiceInterface interface {
	Create(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, orderID int) (*models.Order, error)
	ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error)
	ListForUser(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error)
	SetStatus(ctx context.Context, orderID int, target string) error
	AssignDriver(ctx context.Context, orderID, driverID int) error
	Delete(ctx context.Context, orderID int) error
}

// Service implements ServiceInterface.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new order service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Create stores a new order; every order starts out pending.
func (s *Service) Create(ctx context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	return s.repo.Create(ctx, userID, req)
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, orderID int) (*models.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

// ListAll returns orders page by page, newest first.
func (s *Service) ListAll(ctx context.Context, page, limit int) ([]*models.Order, int, error) {
	return s.repo.ListAll(ctx, page, limit)
}

// ListForUser returns one user's orders page by page, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string, page, limit int) ([]*models.Order, int, error) {
	return s.repo.ListByUserID(ctx, userID, page, limit)
}

// SetStatus applies a status transition. The legal source statuses travel
// with the UPDATE so the check and the write are a single statement; a
// transition out of a terminal status comes back as
// models.ErrInvalidStatusTransition.
func (s *Service) SetStatus(ctx context.Context, orderID int, target string) error {
	allowedFrom, ok := statusTransitions[target]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", models.ErrInvalidStatusTransition, target)
	}
	return s.repo.UpdateStatus(ctx, orderID, allowedFrom, target)
}

// AssignDriver attaches a driver to the order.
func (s *Service) AssignDriver(ctx context.Context, orderID, driverID int) error {
	return s.repo.AssignDriver(ctx, orderID, driverID)
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, orderID int) error {
	return s.repo.Delete(ctx, orderID)
}
