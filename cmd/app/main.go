// app boots the companion core headless: configuration, storage, auth
// auto-login, a full data refresh, and an optional simulated location stream.
// It is the integration harness the mobile shell embeds.
package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drivemate/api"
	"drivemate/appstate"
	"drivemate/auth"
	"drivemate/fleet"
	"drivemate/location"
	"drivemate/shared/config"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
	"drivemate/storage"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.Get(cfg.Log)
	errlog := apperrors.NewLog(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var kv storage.Store
	if cfg.Redis.Enabled {
		redisStore := storage.NewRedisStore(&cfg.Redis)
		if err := redisStore.Connect(ctx); err != nil {
			log.Error("redis unavailable, falling back to memory store", "error", err)
			kv = storage.NewMemoryStore()
		} else {
			defer redisStore.Close()
			kv = redisStore
		}
	} else {
		kv = storage.NewMemoryStore()
	}

	deviceID, err := storage.EnsureDeviceID(ctx, kv)
	if err != nil {
		log.Warn("could not persist device id", "error", err)
	} else {
		log.Debug("device identity", "device_id", deviceID)
	}

	authSvc := auth.NewService(&cfg.OAuth, kv, log, errlog)
	client := api.NewClient(cfg.DataBaseURL(), authSvc, log, errlog)
	client.OnUnauthorized(func(ctx context.Context) { authSvc.Logout(ctx) })

	services := fleet.NewServices(client, log)
	tracker := location.NewTracker(newSimProvider(), services, cfg.Tracker, log, errlog)

	store := appstate.New(appstate.Options{
		Services: services,
		Tracker:  tracker,
		KV:       kv,
		Logger:   log,
		ErrorLog: errlog,
		DriverID: func(ctx context.Context) int {
			return authSvc.DriverID(ctx, cfg.API.DefaultDriverID)
		},
	})

	if !authSvc.AutoLogin(ctx) {
		log.Error("auto-login failed; set OAuth credentials in the environment")
		os.Exit(1)
	}
	log.Info("authenticated", "environment", cfg.App.Environment)

	store.RefreshAllData(ctx)

	snap := store.Snapshot()
	stats := store.JobStats()
	log.Info("session ready",
		"driver", snap.User.DisplayName(),
		"new_orders", stats.NewOrders,
		"accepted", stats.Accepted,
		"unread", store.UnreadCount(),
	)
	if missing := snap.Documents.MissingRequired(); len(missing) > 0 {
		log.Warn("required documents missing", "documents", missing)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	tracker.Stop()
	log.Info("shutdown complete")
}

// simProvider emits a random walk around a fixed origin, standing in for the
// platform's GPS services when running headless.
type simProvider struct {
	lat, lng float64
}

func newSimProvider() *simProvider {
	return &simProvider{lat: 43.6532, lng: -79.3832}
}

func (p *simProvider) RequestPermission(ctx context.Context) (location.Permission, error) {
	return location.PermissionGranted, nil
}

func (p *simProvider) Current(ctx context.Context) (location.Fix, error) {
	p.step()
	return location.Fix{Latitude: p.lat, Longitude: p.lng, Time: time.Now()}, nil
}

func (p *simProvider) Watch(ctx context.Context, opts location.WatchOptions) (<-chan location.Fix, func(), error) {
	fixes := make(chan location.Fix)
	done := make(chan struct{})

	go func() {
		defer close(fixes)
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				p.step()
				select {
				case fixes <- location.Fix{Latitude: p.lat, Longitude: p.lng, Time: t}:
				case <-done:
					return
				}
			}
		}
	}()

	var once func()
	closed := false
	once = func() {
		if !closed {
			closed = true
			close(done)
		}
	}
	return fixes, once, nil
}

func (p *simProvider) step() {
	p.lat += (rand.Float64() - 0.5) * 0.001
	p.lng += (rand.Float64() - 0.5) * 0.001
}
