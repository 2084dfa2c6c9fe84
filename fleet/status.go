package fleet

// Status is the delivery lifecycle as the UI sees it. The wire format
// differs in exactly one place: the API spells pickedup as picked_up.
type Status string

const (
	StatusNew       Status = "new"
	StatusAccepted  Status = "accepted"
	StatusPickedUp  Status = "pickedup"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusPickedUp, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Wire converts a UI status to the API's spelling.
func (s Status) Wire() string {
	if s == StatusPickedUp {
		return "picked_up"
	}
	return string(s)
}

// StatusFromWire converts an API status string to the UI spelling. Unknown
// strings pass through unchanged so new server states degrade gracefully.
func StatusFromWire(s string) Status {
	if s == "picked_up" {
		return StatusPickedUp
	}
	return Status(s)
}

// CanTransition enforces the job lifecycle: forward one step at a time, with
// a cancel branch from any non-terminal state.
func (s Status) CanTransition(to Status) bool {
	if to == StatusCancelled {
		return !s.Terminal()
	}
	switch s {
	case StatusNew:
		return to == StatusAccepted
	case StatusAccepted:
		return to == StatusPickedUp
	case StatusPickedUp:
		return to == StatusDelivered
	}
	return false
}
