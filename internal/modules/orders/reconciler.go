package orders

import (
	"context"
	"time"

	"ride-hail-backend/internal/models"

	"github.com/labstack/echo/v4"
)

// purgeStartupDelay holds the purge/audit sweep back briefly after boot so
// the first cancel sweep always gets there first.
const purgeStartupDelay = 10 * time.Second

// ReconcilerStore is the slice of the order repository the reconciler needs.
type ReconcilerStore interface {
	CancelExpired(ctx context.Context, olderThan time.Time) ([]models.ExpiredOrder, error)
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	CountExpiredPending(ctx context.Context, olderThan time.Duration) (int64, error)
}

// ExpiryNotifier tells a customer their pending order timed out. Best effort:
// a failed notice is logged and never blocks the sweep.
type ExpiryNotifier interface {
	NotifyOrderExpired(ctx context.Context, email, name string, orderID int) error
}

// Reconciler runs the two background sweeps over stuck pending orders.
//
// The cancel sweep is the authoritative one: every interval it rewrites
// expired pending orders to cancelled with a single predicate-guarded UPDATE.
// The second sweep is, by default, a pure audit pass that only counts and
// reports orders the cancel sweep should have claimed. Setting purgeEnabled
// turns it back into a hard-deleting sweep; its DELETE carries the same
// status predicate and uses the database's clock for the age cutoff, so even
// with both mutators running an expired order is claimed by exactly one
// statement — the loser matches zero rows.
type Reconciler struct {
	store        ReconcilerStore
	notifier     ExpiryNotifier
	log          echo.Logger
	interval     time.Duration
	pendingTTL   time.Duration
	purgeEnabled bool
	purgeDelay   time.Duration
	now          func() time.Time
}

// NewReconciler creates a reconciler. notifier may be nil when expiry emails
// are disabled.
func NewReconciler(store ReconcilerStore, notifier ExpiryNotifier, log echo.Logger,
	interval, pendingTTL time.Duration, purgeEnabled bool) *Reconciler {
	return &Reconciler{
		store:        store,
		notifier:     notifier,
		log:          log,
		interval:     interval,
		pendingTTL:   pendingTTL,
		purgeEnabled: purgeEnabled,
		purgeDelay:   purgeStartupDelay,
		now:          time.Now,
	}
}

// Start launches both sweep loops. They stop when ctx is cancelled; nothing
// they encounter is treated as fatal to the process.
func (r *Reconciler) Start(ctx context.Context) {
	go r.runLoop(ctx, 0, r.sweepCancel)
	go r.runLoop(ctx, r.purgeDelay, r.sweepPurge)
}

func (r *Reconciler) runLoop(ctx context.Context, startupDelay time.Duration, sweep func(context.Context)) {
	if startupDelay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(startupDelay):
		}
	}

	sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

// sweepCancel claims expired pending orders, moves them to cancelled and
// sends the expiry notices. A store failure abandons this run; the next tick
// retries.
func (r *Reconciler) sweepCancel(ctx context.Context) {
	expired, err := r.store.CancelExpired(ctx, r.now().Add(-r.pendingTTL))
	if err != nil {
		r.log.Error("reconciler: cancel sweep failed: ", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	r.log.Infof("reconciler: cancelled %d expired pending order(s)", len(expired))

	if r.notifier == nil {
		return
	}
	for _, o := range expired {
		if err := r.notifier.NotifyOrderExpired(ctx, o.UserEmail, o.UserName, o.ID); err != nil {
			r.log.Warnf("reconciler: expiry notice for order %d failed: %v", o.ID, err)
		}
	}
}

// sweepPurge is the second, independently scheduled pass over the same
// predicate. Auditing by default, deleting when enabled.
func (r *Reconciler) sweepPurge(ctx context.Context) {
	if !r.purgeEnabled {
		lingering, err := r.store.CountExpiredPending(ctx, r.pendingTTL)
		if err != nil {
			r.log.Error("reconciler: audit sweep failed: ", err)
			return
		}
		if lingering > 0 {
			r.log.Warnf("reconciler: %d expired pending order(s) not yet cancelled", lingering)
		}
		return
	}

	deleted, err := r.store.DeleteExpired(ctx, r.pendingTTL)
	if err != nil {
		r.log.Error("reconciler: purge sweep failed: ", err)
		return
	}
	if deleted > 0 {
		r.log.Infof("reconciler: purged %d expired pending order(s)", deleted)
	}
}
