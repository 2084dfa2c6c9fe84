package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"drivemate/fleet"
	"drivemate/shared/config"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"

	"github.com/cenkalti/backoff/v4"
)

// Publisher posts one location sample. Implemented by fleet.Services.
type Publisher interface {
	PublishLocation(ctx context.Context, driverID int, sample fleet.LocationSample) fleet.Outcome
}

// State is the read-only tracker snapshot exposed to the UI.
type State struct {
	IsTracking      bool
	CurrentLocation *Fix
	Permission      Permission
}

type Tracker struct {
	provider  Provider
	publisher Publisher
	cfg       config.TrackerConfig
	log       *slog.Logger
	errlog    *apperrors.Log

	mu         sync.Mutex
	tracking   bool
	stopWatch  func()
	done       chan struct{}
	current    *Fix
	permission Permission
}

func NewTracker(provider Provider, publisher Publisher, cfg config.TrackerConfig, log *slog.Logger, errlog *apperrors.Log) *Tracker {
	return &Tracker{
		provider:   provider,
		publisher:  publisher,
		cfg:        cfg,
		log:        logger.WithComponent(log, "tracker"),
		errlog:     errlog,
		permission: PermissionUnknown,
	}
}

// Start begins the watch-and-publish loop. Starting while already tracking
// is a no-op returning true. A denied permission returns false with no side
// effects.
func (t *Tracker) Start(ctx context.Context, driverID int) bool {
	t.mu.Lock()
	if t.tracking {
		t.mu.Unlock()
		return true
	}
	t.mu.Unlock()

	perm, err := t.provider.RequestPermission(ctx)
	if err != nil {
		t.errlog.Record(apperrors.NewUnknownError("location permission request failed", err), nil)
		return false
	}

	t.mu.Lock()
	t.permission = perm
	t.mu.Unlock()

	if perm != PermissionGranted {
		t.log.Warn("location permission not granted", "status", string(perm))
		return false
	}

	fixes, stop, err := t.provider.Watch(ctx, WatchOptions{
		Interval: t.cfg.Interval,
		Distance: t.cfg.Distance,
	})
	if err != nil {
		t.errlog.Record(apperrors.NewUnknownError("failed to start location watcher", err), nil)
		return false
	}

	done := make(chan struct{})

	t.mu.Lock()
	if t.tracking {
		// lost the race with another Start
		t.mu.Unlock()
		stop()
		return true
	}
	t.tracking = true
	t.stopWatch = stop
	t.done = done
	t.mu.Unlock()

	go t.run(driverID, fixes, done)

	t.log.Info("location tracking started",
		"driver_id", driverID,
		"interval", t.cfg.Interval.String(),
		"distance_m", t.cfg.Distance,
	)
	return true
}

func (t *Tracker) run(driverID int, fixes <-chan Fix, done chan struct{}) {
	defer close(done)
	for fix := range fixes {
		t.mu.Lock()
		f := fix
		t.current = &f
		t.mu.Unlock()

		t.publish(driverID, fix)
	}
}

// publish posts one fix with a short bounded retry. Failures are logged and
// swallowed so the watch loop keeps running.
func (t *Tracker) publish(driverID int, fix Fix) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sample := fleet.LocationSample{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Timestamp: fix.Time.UTC().Format(time.RFC3339),
	}

	operation := func() error {
		outcome := t.publisher.PublishLocation(ctx, driverID, sample)
		if outcome.Success {
			return nil
		}
		if outcome.Err != nil {
			return outcome.Err
		}
		return fmt.Errorf("publish rejected: %s", outcome.Message)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		t.log.Warn("location publish failed", "driver_id", driverID, "error", err)
	}
}

// Stop ends the watch loop. Idempotent; safe with no active subscription.
func (t *Tracker) Stop() {
	t.mu.Lock()
	stop := t.stopWatch
	done := t.done
	t.tracking = false
	t.stopWatch = nil
	t.done = nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	stop()
	if done != nil {
		<-done
	}
	t.log.Info("location tracking stopped")
}

// UpdateOnce takes a single fix and publishes it, outside any watch loop.
func (t *Tracker) UpdateOnce(ctx context.Context, driverID int) bool {
	perm, err := t.provider.RequestPermission(ctx)
	if err != nil || perm != PermissionGranted {
		return false
	}

	t.mu.Lock()
	t.permission = perm
	t.mu.Unlock()

	fix, err := t.provider.Current(ctx)
	if err != nil {
		t.log.Warn("one-shot fix failed", "error", err)
		return false
	}

	t.mu.Lock()
	f := fix
	t.current = &f
	t.mu.Unlock()

	outcome := t.publisher.PublishLocation(ctx, driverID, fleet.LocationSample{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Timestamp: fix.Time.UTC().Format(time.RFC3339),
	})
	return outcome.Success
}

// IsTracking reports whether the watch loop is live.
func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tracking
}

// Snapshot returns the current tracker state.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := State{
		IsTracking: t.tracking,
		Permission: t.permission,
	}
	if t.current != nil {
		f := *t.current
		state.CurrentLocation = &f
	}
	return state
}
