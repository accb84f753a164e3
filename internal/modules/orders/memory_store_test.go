package orders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ride-hail-backend/internal/models"
)

// memoryStore is an in-memory stand-in for the Postgres repository. Every
// operation takes the store lock and re-evaluates its predicate at write
// time, mirroring how the real statements condition on the current row state.
type memoryStore struct {
	mu     sync.Mutex
	nextID int
	orders map[int]*models.Order
	emails map[string]string // userID -> email

	failCancel bool
	failDelete bool
	failCount  bool
}

var errStoreDown = errors.New("store unreachable")

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID: 1,
		orders: make(map[int]*models.Order),
		emails: make(map[string]string),
	}
}

func (m *memoryStore) addOrder(userID, status string, age time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.orders[id] = &models.Order{
		ID:     id,
		UserID: userID,
		Date:   time.Now().Add(-age),
		Status: status,
		Type:   "ride",
	}
	return id
}

func (m *memoryStore) status(id int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return "", false
	}
	return o.Status, true
}

func (m *memoryStore) Create(_ context.Context, userID string, req models.CreateOrderRequest) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	o := &models.Order{
		ID:     id,
		UserID: userID,
		Date:   time.Now(),
		From:   req.From,
		To:     req.To,
		Type:   req.Type,
		Status: models.OrderStatusPending,
	}
	m.orders[id] = o
	cp := *o
	return &cp, nil
}

func (m *memoryStore) FindByID(_ context.Context, orderID int) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryStore) ListAll(_ context.Context, _, _ int) ([]*models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memoryStore) ListByUserID(_ context.Context, userID string, _, _ int) ([]*models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memoryStore) UpdateStatus(ctx context.Context, orderID int, allowedFrom []string, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.ErrNotFound
	}
	for _, from := range allowedFrom {
		if o.Status == from {
			o.Status = to
			return nil
		}
	}
	return models.ErrInvalidStatusTransition
}

func (m *memoryStore) AssignDriver(_ context.Context, orderID, driverID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return models.ErrNotFound
	}
	o.DriverID.Int64 = int64(driverID)
	o.DriverID.Valid = true
	return nil
}

func (m *memoryStore) Delete(_ context.Context, orderID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[orderID]; !ok {
		return models.ErrNotFound
	}
	delete(m.orders, orderID)
	return nil
}

func (m *memoryStore) CancelExpired(_ context.Context, olderThan time.Time) ([]models.ExpiredOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCancel {
		return nil, errStoreDown
	}
	var out []models.ExpiredOrder
	for _, o := range m.orders {
		if o.Status == models.OrderStatusPending && o.Date.Before(olderThan) {
			o.Status = models.OrderStatusCancelled
			out = append(out, models.ExpiredOrder{
				ID:        o.ID,
				UserID:    o.UserID,
				UserEmail: m.emails[o.UserID],
				UserName:  o.UserID,
			})
		}
	}
	return out, nil
}

func (m *memoryStore) DeleteExpired(_ context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return 0, errStoreDown
	}
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for id, o := range m.orders {
		if o.Status == models.OrderStatusPending && o.Date.Before(cutoff) {
			delete(m.orders, id)
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CountExpiredPending(_ context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCount {
		return 0, errStoreDown
	}
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for _, o := range m.orders {
		if o.Status == models.OrderStatusPending && o.Date.Before(cutoff) {
			n++
		}
	}
	return n, nil
}
