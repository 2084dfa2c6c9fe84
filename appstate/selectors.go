package appstate

import "drivemate/fleet"

// JobStats are the dashboard counters as the stats widgets consume them.
type JobStats struct {
	NewOrders int `json:"newOrders"`
	Accepted  int `json:"accepted"`
	PickedUp  int `json:"pickedup"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
}

// Snapshot is a point-in-time copy of the store. Slices and maps are copied
// so the UI can hold one across suspensions without observing later writes.
type Snapshot struct {
	User          fleet.User
	Dashboard     fleet.Dashboard
	Jobs          []fleet.Job
	CurrentJobs   []fleet.Job
	JobDetails    *fleet.Job
	Rides         map[fleet.Status][]fleet.Job
	Documents     fleet.Documents
	Notifications []fleet.Notification
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		User:          s.user,
		Dashboard:     s.dashboard,
		Jobs:          append([]fleet.Job(nil), s.jobs...),
		CurrentJobs:   append([]fleet.Job(nil), s.currentJobs...),
		Notifications: append([]fleet.Notification(nil), s.notifications...),
		Rides:         make(map[fleet.Status][]fleet.Job, len(s.rides)),
		Documents:     make(fleet.Documents, len(s.documents)),
	}
	snap.Dashboard.NewJobs = append([]fleet.Job(nil), s.dashboard.NewJobs...)
	if s.jobDetails != nil {
		detail := *s.jobDetails
		snap.JobDetails = &detail
	}
	for status, rides := range s.rides {
		snap.Rides[status] = append([]fleet.Job(nil), rides...)
	}
	for k, v := range s.documents {
		snap.Documents[k] = v
	}
	return snap
}

// JobStats derives the stats widget values from the dashboard counters with
// zero-defaulting already applied at normalization.
func (s *Store) JobStats() JobStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.dashboard.Counts
	return JobStats{
		NewOrders: c.NewOrder,
		Accepted:  c.Accepted,
		PickedUp:  c.PickedUp,
		Delivered: c.Delivered,
		Cancelled: c.Cancelled,
	}
}

// UnreadCount is the badge value for the notifications tab.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// TabCount is the rides-tab badge: the dashboard count when it is positive,
// otherwise the length of the loaded rides slice. Keeps counts stable before
// a tab's rides are paged in.
func (s *Store) TabCount(status fleet.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count := s.dashboard.Counts.ByStatus(status); count > 0 {
		return count
	}
	return len(s.rides[status])
}
