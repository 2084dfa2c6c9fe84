package appstate

import (
	"context"
	"strconv"

	"drivemate/fleet"
)

// JobRef identifies a job for the details screen. Accepts an int id, a
// numeric string, or a Job, whose id is taken from order_id, parcel_id, id,
// tracking_id in that preference order.
func jobRefID(ref any) int {
	switch v := ref.(type) {
	case int:
		return v
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			return id
		}
	case fleet.Job:
		return jobID(&v)
	case *fleet.Job:
		if v != nil {
			return jobID(v)
		}
	}
	return 0
}

func jobID(job *fleet.Job) int {
	if id, err := strconv.Atoi(job.OrderID); err == nil && id > 0 {
		return id
	}
	if job.ParcelID > 0 {
		return job.ParcelID
	}
	if job.ID > 0 {
		return job.ID
	}
	if id, err := strconv.Atoi(job.TrackingID); err == nil && id > 0 {
		return id
	}
	return 0
}

// LoadJobDetails loads one job into the details slot. A not-found clears the
// slot so the screen shows its empty state instead of the previous job.
func (s *Store) LoadJobDetails(ctx context.Context, ref any) bool {
	if !s.begin(OpJobDetails) {
		return false
	}
	defer s.finish(OpJobDetails)

	parcelID := jobRefID(ref)
	res := s.services.JobDetails(ctx, s.driverID(ctx), parcelID)
	if !res.Success {
		s.setError(OpJobDetails, userFriendly(res.Outcome))
		s.mu.Lock()
		s.jobDetails = nil
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	s.jobDetails = res.Job
	s.mu.Unlock()
	return true
}

// AcceptJob transitions a job to accepted. The HTML_RESPONSE fallback (the
// transition endpoint answering with a web page) counts as success with an
// optimistic local update. Either way, location tracking starts if it is not
// already running; a tracker failure never fails the accept.
func (s *Store) AcceptJob(ctx context.Context, ref any) bool {
	if !s.begin(OpJobs) {
		return false
	}
	defer s.finish(OpJobs)

	id := jobRefID(ref)
	res := s.services.TransitionJob(ctx, id, fleet.StatusAccepted)
	if !res.Success && !res.HTMLFallback {
		s.setError(OpJobs, userFriendly(res.Outcome))
		return false
	}

	s.setJobStatus(id, fleet.StatusAccepted)
	s.LoadDashboardData(ctx)
	s.startTracking(ctx)
	return true
}

// UpdateJobStatus dispatches a lifecycle transition and, on success, updates
// the in-memory job and reloads the dashboard. Accepting additionally starts
// location tracking.
func (s *Store) UpdateJobStatus(ctx context.Context, ref any, newStatus fleet.Status) bool {
	if newStatus == fleet.StatusAccepted {
		return s.AcceptJob(ctx, ref)
	}

	if !s.begin(OpJobs) {
		return false
	}
	defer s.finish(OpJobs)

	id := jobRefID(ref)
	res := s.services.TransitionJob(ctx, id, newStatus)
	if !res.Success {
		s.setError(OpJobs, userFriendly(res.Outcome))
		return false
	}

	s.setJobStatus(id, newStatus)
	s.LoadDashboardData(ctx)
	return true
}

// setJobStatus applies a local status change across every list holding the
// job.
func (s *Store) setJobStatus(id int, status fleet.Status) {
	s.mu.Lock()
	apply := func(jobs []fleet.Job) {
		for i := range jobs {
			if jobID(&jobs[i]) == id || jobs[i].ID == id {
				jobs[i].Status = status
			}
		}
	}
	apply(s.jobs)
	apply(s.currentJobs)
	if s.jobDetails != nil && (jobID(s.jobDetails) == id || s.jobDetails.ID == id) {
		s.jobDetails.Status = status
	}
	s.mu.Unlock()
	s.notify()
}

// startTracking is tolerant: a tracker that cannot start (denied permission,
// missing provider) is logged and ignored.
func (s *Store) startTracking(ctx context.Context) {
	if s.tracker == nil || s.tracker.IsTracking() {
		return
	}
	if !s.tracker.Start(ctx, s.driverID(ctx)) {
		s.log.Warn("location tracking could not start after job accept")
	}
}
