package appstate

import (
	"context"

	"drivemate/fleet"

	"golang.org/x/sync/errgroup"
)

// LoadDriverProfile replaces the user. On failure a minimal default user is
// installed so UI contracts stay valid.
func (s *Store) LoadDriverProfile(ctx context.Context) bool {
	if !s.begin(OpProfile) {
		return false
	}
	defer s.finish(OpProfile)

	res := s.services.Profile(ctx, s.driverID(ctx))
	if !res.Success || res.User == nil {
		s.setError(OpProfile, userFriendly(res.Outcome))
		s.mu.Lock()
		if !s.hasUser {
			s.user = fleet.DefaultUser()
		}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.user = *res.User
	s.hasUser = true
	s.mu.Unlock()

	s.cacheProfile(ctx, *res.User)
	return true
}

// LoadDashboardData replaces the counters and merges the new-jobs feed into
// the job list: every job whose status is not "new" is retained, the "new"
// cohort is replaced by the feed. A failed load preserves the previously
// loaded counts.
func (s *Store) LoadDashboardData(ctx context.Context) bool {
	if !s.begin(OpDashboard) {
		return false
	}
	defer s.finish(OpDashboard)

	res := s.services.LoadDashboard(ctx, s.driverID(ctx))
	if !res.Success || res.Dashboard == nil {
		s.setError(OpDashboard, userFriendly(res.Outcome))
		return false
	}

	s.mu.Lock()
	s.dashboard = *res.Dashboard
	s.hasDashboard = true

	kept := make([]fleet.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if job.Status != fleet.StatusNew {
			kept = append(kept, job)
		}
	}
	s.jobs = append(append([]fleet.Job{}, res.Dashboard.NewJobs...), kept...)
	s.mu.Unlock()

	return true
}

// LoadCurrentJobs replaces the in-flight job list; on failure it resets to
// empty so the UI never renders stale entries as live.
func (s *Store) LoadCurrentJobs(ctx context.Context) bool {
	if !s.begin(OpCurrentJobs) {
		return false
	}
	defer s.finish(OpCurrentJobs)

	res := s.services.CurrentJobs(ctx, s.driverID(ctx))
	if !res.Success {
		s.setError(OpCurrentJobs, userFriendly(res.Outcome))
		s.mu.Lock()
		s.currentJobs = []fleet.Job{}
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.currentJobs = res.Jobs
	s.mu.Unlock()
	return true
}

// LoadDriverRides loads one rides tab. A tab already loading, or already
// attempted and not cleared by an error, is a no-op; force (pull-to-refresh)
// bypasses the attempt guard. On error the slot is reset to an empty slice
// so the UI never renders a missing entry.
func (s *Store) LoadDriverRides(ctx context.Context, status fleet.Status, force bool) bool {
	op := RidesOp(status)

	s.mu.Lock()
	if s.loading[op] || (!force && s.ridesAttempted[status]) {
		s.mu.Unlock()
		return false
	}
	s.loading[op] = true
	delete(s.errors, op)
	s.ridesAttempted[status] = true
	s.mu.Unlock()
	s.notify()
	defer s.finish(op)

	res := s.services.Rides(ctx, s.driverID(ctx), status)
	if !res.Success {
		s.mu.Lock()
		s.errors[op] = userFriendly(res.Outcome)
		s.rides[status] = []fleet.Job{}
		s.ridesAttempted[status] = false
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.rides[status] = res.Rides
	s.mu.Unlock()
	return true
}

// LoadDriverDocuments replaces the compliance document map.
func (s *Store) LoadDriverDocuments(ctx context.Context) bool {
	if !s.begin(OpDocuments) {
		return false
	}
	defer s.finish(OpDocuments)

	res := s.services.LoadDocuments(ctx, s.driverID(ctx))
	if !res.Success {
		s.setError(OpDocuments, userFriendly(res.Outcome))
		return false
	}

	s.mu.Lock()
	s.documents = res.Documents
	s.mu.Unlock()
	return true
}

// UpdateUserProfile submits the profile form. On success the mapped user
// replaces the current one, but the synthesized fields (rating, active,
// vehicle) carry over from the prior state since the backend never returns
// them.
func (s *Store) UpdateUserProfile(ctx context.Context, patch fleet.ProfilePatch) bool {
	if !s.begin(OpProfileUpdate) {
		return false
	}
	defer s.finish(OpProfileUpdate)

	s.mu.Lock()
	driverID := s.user.ID
	prior := s.user
	s.mu.Unlock()
	if driverID == 0 {
		driverID = s.driverID(ctx)
	}

	res := s.services.UpdateProfile(ctx, driverID, patch)
	if !res.Success {
		s.setError(OpProfileUpdate, userFriendly(res.Outcome))
		return false
	}

	if res.User != nil {
		updated := *res.User
		updated.Rating = prior.Rating
		updated.Active = prior.Active
		updated.Vehicle = prior.Vehicle

		s.mu.Lock()
		s.user = updated
		s.hasUser = true
		s.mu.Unlock()
		s.cacheProfile(ctx, updated)
	}
	return true
}

// UpdateDriverDocuments uploads the given files and replaces the document
// map with the server's view.
func (s *Store) UpdateDriverDocuments(ctx context.Context, files map[string]fleet.FileInput) bool {
	if !s.begin(OpDocumentUpdate) {
		return false
	}
	defer s.finish(OpDocumentUpdate)

	res := s.services.UpdateDocuments(ctx, s.driverID(ctx), files)
	if !res.Success {
		s.setError(OpDocumentUpdate, userFriendly(res.Outcome))
		return false
	}

	s.mu.Lock()
	if len(res.Documents) > 0 {
		s.documents = res.Documents
	}
	s.mu.Unlock()
	return true
}

// MarkDriverAbsent reports the driver unavailable for a day and, on success,
// reloads the dashboard so the counters reflect any reassignment.
func (s *Store) MarkDriverAbsent(ctx context.Context, date string) bool {
	if !s.begin(OpMarkAbsent) {
		return false
	}

	outcome := s.services.MarkAbsent(ctx, s.driverID(ctx), date)
	if !outcome.Success {
		s.setError(OpMarkAbsent, userFriendly(outcome))
		s.finish(OpMarkAbsent)
		return false
	}
	s.finish(OpMarkAbsent)

	s.LoadDashboardData(ctx)
	return true
}

// LoadNotifications replaces the notification list.
func (s *Store) LoadNotifications(ctx context.Context) bool {
	if !s.begin(OpNotifications) {
		return false
	}
	defer s.finish(OpNotifications)

	res := s.services.Notifications(ctx, s.driverID(ctx))
	if !res.Success {
		s.setError(OpNotifications, userFriendly(res.Outcome))
		return false
	}

	s.mu.Lock()
	s.notifications = res.Notifications
	s.mu.Unlock()
	return true
}

// MarkNotificationAsRead flips the read flag for one notification after the
// server acknowledges it.
func (s *Store) MarkNotificationAsRead(ctx context.Context, notificationID int) bool {
	outcome := s.services.MarkNotificationRead(ctx, s.driverID(ctx), notificationID)
	if !outcome.Success {
		return false
	}

	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	return true
}

// RefreshAllData fires the tab-focus refresh set in parallel. Each load is
// independently error-isolated: one failing endpoint never blocks the rest.
func (s *Store) RefreshAllData(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { s.LoadDriverProfile(gctx); return nil })
	g.Go(func() error { s.LoadDashboardData(gctx); return nil })
	g.Go(func() error { s.LoadCurrentJobs(gctx); return nil })
	g.Go(func() error { s.LoadDriverDocuments(gctx); return nil })
	g.Go(func() error { s.LoadNotifications(gctx); return nil })

	_ = g.Wait()
}
