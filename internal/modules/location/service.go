package location

import (
	"context"
	"fmt"
	"time"

	"ride-hail-backend/internal/models"
)

// DriverDirectory is the read-only view of the driver store this module needs:
// resolving a driver id to its display name at write time.
type DriverDirectory interface {
	FindByID(ctx context.Context, driverID int) (*models.Driver, error)
}

// Broadcaster pushes a state change to every connected streaming observer.
// Delivery is best effort; the service does not learn about failed sends.
type Broadcaster interface {
	BroadcastEvent(action string, data interface{})
}

// ServiceInterface defines the live-location operations shared by the REST
// facade and the streaming gateway.
type ServiceInterface interface {
	Connect(ctx context.Context, driverID int) (models.DriverLocation, error)
	Update(ctx context.Context, driverID int, lat, lng float64, ts time.Time) (models.DriverLocation, error)
	Get(driverID int) (models.DriverLocation, error)
	ListOnline() []models.DriverLocation
	Nearby(lat, lng, radiusKm float64) ([]models.DriverLocation, error)
	Remove(driverID int) error
	MarkOffline(driverID int) (models.DriverLocation, bool)
}

// Service implements ServiceInterface on top of the in-memory registry.
// Both ingress paths (facade and gateway) hold the same instance, so writes
// through either are immediately visible to the other and trigger the same
// fan-out.
type Service struct {
	registry    *Registry
	directory   DriverDirectory
	broadcaster Broadcaster
	staleness   time.Duration
	now         func() time.Time
}

// NewService creates the location service. broadcaster may be nil when no
// streaming hub is attached (tests, tooling).
func NewService(registry *Registry, directory DriverDirectory, staleness time.Duration) *Service {
	return &Service{
		registry:  registry,
		directory: directory,
		staleness: staleness,
		now:       time.Now,
	}
}

// SetBroadcaster attaches the streaming hub after construction; the hub and
// the service reference each other, so one side has to be wired late.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// isOnline is the liveness predicate: the entry was not explicitly marked
// offline and its last update is within the staleness window. It is derived at
// read time, never stored.
func (s *Service) isOnline(loc models.DriverLocation, now time.Time) bool {
	return loc.Online && now.Sub(loc.LastUpdate) < s.staleness
}

func (s *Service) withLiveness(loc models.DriverLocation, now time.Time) models.DriverLocation {
	loc.Online = s.isOnline(loc, now)
	return loc
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Connect registers an initial (0,0) entry for a driver that just opened a
// streaming connection. It resolves the display name like Update does but
// leaves announcing the driver to the caller, which emits its own
// DriverConnected notice instead of a location change.
func (s *Service) Connect(ctx context.Context, driverID int) (models.DriverLocation, error) {
	driver, err := s.directory.FindByID(ctx, driverID)
	if err != nil {
		return models.DriverLocation{}, fmt.Errorf("location.Connect: %w", err)
	}

	loc := models.DriverLocation{
		DriverID:   driverID,
		DriverName: driver.FullName,
		LastUpdate: s.now(),
		Online:     true,
	}
	s.registry.Upsert(loc)
	return loc, nil
}

// Update validates the coordinates, resolves the driver's display name from
// the directory, replaces the registry entry and fans the change out. The
// returned entry is what observers were sent.
func (s *Service) Update(ctx context.Context, driverID int, lat, lng float64, ts time.Time) (models.DriverLocation, error) {
	if !validCoordinates(lat, lng) {
		return models.DriverLocation{}, models.ErrInvalidCoordinates
	}

	driver, err := s.directory.FindByID(ctx, driverID)
	if err != nil {
		return models.DriverLocation{}, fmt.Errorf("location.Update: %w", err)
	}

	if ts.IsZero() {
		ts = s.now()
	}

	loc := models.DriverLocation{
		DriverID:   driverID,
		DriverName: driver.FullName,
		Lat:        lat,
		Lng:        lng,
		LastUpdate: ts,
		Online:     true,
	}
	s.registry.Upsert(loc)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent("LocationUpdate", loc)
	}
	return loc, nil
}

// Get returns the driver's entry with liveness derived at call time. A driver
// that has never reported a location yields ErrDriverNotFound, not a
// zero-valued entry.
func (s *Service) Get(driverID int) (models.DriverLocation, error) {
	loc, ok := s.registry.Get(driverID)
	if !ok {
		return models.DriverLocation{}, models.ErrDriverNotFound
	}
	return s.withLiveness(loc, s.now()), nil
}

// ListOnline snapshots the registry and keeps only entries satisfying the
// liveness predicate at call time. Order is unspecified.
func (s *Service) ListOnline() []models.DriverLocation {
	now := s.now()
	var online []models.DriverLocation
	for _, loc := range s.registry.All() {
		if s.isOnline(loc, now) {
			online = append(online, loc)
		}
	}
	return online
}

// Nearby returns online drivers within radiusKm of (lat,lng), nearest first.
func (s *Service) Nearby(lat, lng, radiusKm float64) ([]models.DriverLocation, error) {
	if !validCoordinates(lat, lng) {
		return nil, models.ErrInvalidCoordinates
	}
	return nearestWithin(s.ListOnline(), lat, lng, radiusKm), nil
}

// Remove deletes the driver's entry (explicit offboarding) and notifies
// observers.
func (s *Service) Remove(driverID int) error {
	if !s.registry.Remove(driverID) {
		return models.ErrDriverNotFound
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastEvent("DriverRemoved", map[string]int{"driverId": driverID})
	}
	return nil
}

// MarkOffline flags the driver's entry offline without removing it, as happens
// when a streaming connection drops. The updated entry is returned so the
// caller can include it in its disconnection notice.
func (s *Service) MarkOffline(driverID int) (models.DriverLocation, bool) {
	now := s.now()
	if !s.registry.MarkOffline(driverID, now) {
		return models.DriverLocation{}, false
	}
	loc, _ := s.registry.Get(driverID)
	return loc, true
}
