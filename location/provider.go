// Package location runs the on-duty GPS publisher: a permission-gated
// watcher that publishes every delivered fix to the fleet backend and never
// lets a failed publish stop the stream.
package location

import (
	"context"
	"time"
)

type Permission string

const (
	PermissionUnknown Permission = "unknown"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Fix is one GPS reading from the platform.
type Fix struct {
	Latitude  float64
	Longitude float64
	Time      time.Time
}

// WatchOptions configures the platform watcher's delivery triggers: a fix is
// delivered when Interval has elapsed or the device moved Distance meters.
type WatchOptions struct {
	Interval time.Duration
	Distance float64
}

// Provider abstracts the platform location services. Watch returns a fix
// channel and a stop function; the channel closes after stop is called.
type Provider interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Current(ctx context.Context) (Fix, error)
	Watch(ctx context.Context, opts WatchOptions) (<-chan Fix, func(), error)
}
