// Package appstate is the single source of truth for the driver session:
// user, dashboard counters, job lists, rides cache, documents and
// notifications, plus a loading/error slot per named operation. All writes
// funnel through action methods that follow one fixed protocol; the UI reads
// snapshots and subscribes for change notification.
package appstate

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"drivemate/fleet"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
	"drivemate/storage"
)

// Operation keys for the loading/error slots.
const (
	OpProfile        = "profile"
	OpDashboard      = "dashboard"
	OpJobs           = "jobs"
	OpCurrentJobs    = "currentJobs"
	OpJobDetails     = "jobDetails"
	OpNotifications  = "notifications"
	OpDocuments      = "documents"
	OpProfileUpdate  = "profileUpdate"
	OpDocumentUpdate = "documentUpdate"
	OpMarkAbsent     = "markAbsent"
)

// RidesOp builds the per-tab operation key for the rides cache.
func RidesOp(status fleet.Status) string {
	return "rides_" + string(status)
}

// JobTracker is the slice of the location tracker the store drives: start on
// job acceptance, never fail the action when the tracker cannot start.
type JobTracker interface {
	Start(ctx context.Context, driverID int) bool
	IsTracking() bool
}

// DriverIDResolver supplies the driver id for API calls. The auth service
// provides one backed by token claims; the fallback default covers dev
// backends that serve a single fixture driver.
type DriverIDResolver func(ctx context.Context) int

type Store struct {
	services ServiceAPI
	tracker  JobTracker
	kv       storage.Store
	log      *slog.Logger
	errlog   *apperrors.Log
	driverID DriverIDResolver

	mu             sync.Mutex
	user           fleet.User
	hasUser        bool
	dashboard      fleet.Dashboard
	hasDashboard   bool
	jobs           []fleet.Job
	currentJobs    []fleet.Job
	jobDetails     *fleet.Job
	rides          map[fleet.Status][]fleet.Job
	ridesAttempted map[fleet.Status]bool
	documents      fleet.Documents
	notifications  []fleet.Notification
	loading        map[string]bool
	errors         map[string]string

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

type Options struct {
	Services ServiceAPI
	Tracker  JobTracker
	KV       storage.Store
	Logger   *slog.Logger
	ErrorLog *apperrors.Log
	DriverID DriverIDResolver
}

func New(opts Options) *Store {
	resolver := opts.DriverID
	if resolver == nil {
		resolver = func(context.Context) int { return 1 }
	}
	return &Store{
		services:       opts.Services,
		tracker:        opts.Tracker,
		kv:             opts.KV,
		log:            logger.WithComponent(opts.Logger, "store"),
		errlog:         opts.ErrorLog,
		driverID:       resolver,
		rides:          make(map[fleet.Status][]fleet.Job),
		ridesAttempted: make(map[fleet.Status]bool),
		documents:      fleet.Documents{},
		loading:        make(map[string]bool),
		errors:         make(map[string]string),
		subscribers:    make(map[int]func()),
	}
}

// Subscribe registers a change callback and returns its unsubscribe func.
// Callbacks run synchronously after each state change, outside the state
// lock.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// begin enters the action protocol: loading on, error cleared. Returns false
// when the operation is already in flight, which makes re-entry a no-op.
func (s *Store) begin(op string) bool {
	s.mu.Lock()
	if s.loading[op] {
		s.mu.Unlock()
		return false
	}
	s.loading[op] = true
	delete(s.errors, op)
	s.mu.Unlock()
	s.notify()
	return true
}

// finish leaves the action protocol on every code path.
func (s *Store) finish(op string) {
	s.mu.Lock()
	s.loading[op] = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setError(op, message string) {
	s.mu.Lock()
	s.errors[op] = message
	s.mu.Unlock()
}

// Loading reports whether the named operation is in flight.
func (s *Store) Loading(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[op]
}

// ErrorFor returns the recorded error for an operation, with ok=false when
// the slot is clear.
func (s *Store) ErrorFor(op string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.errors[op]
	return msg, ok
}

// userFriendly converts an outcome's failure into the message stored in the
// error slot.
func userFriendly(outcome fleet.Outcome) string {
	if outcome.Err != nil {
		return apperrors.UserMessage(outcome.Err, outcome.Message)
	}
	if outcome.Message != "" {
		return outcome.Message
	}
	return "Something went wrong. Please try again."
}

// cacheProfile mirrors the loaded profile into the legacy storage slot. The
// cache is write-only; the API stays the source of truth.
func (s *Store) cacheProfile(ctx context.Context, user fleet.User) {
	if s.kv == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, storage.KeyUserProfile, string(payload)); err != nil {
		s.log.Debug("legacy profile cache write failed", "error", err)
	}
}
