package fleet

import "context"

type RidesResult struct {
	Outcome
	Rides []Job
}

// Rides loads the historical rides for one UI-status tab. The status is
// translated to the wire spelling before the call and each returned ride is
// tagged with the UI status it was requested under.
func (s *Services) Rides(ctx context.Context, driverID int, status Status) RidesResult {
	env, err := s.client.Post(ctx, "/driver/my-rides", map[string]any{
		"driver_id": driverID,
		"status":    status.Wire(),
	})
	if err != nil {
		return RidesResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return RidesResult{Outcome: envelopeFail(env)}
	}

	rides := []Job{}
	if data := env.DataMap(); data != nil {
		if rawRides, ok := data["rides"].([]any); ok {
			rides = NormalizeJobs(rawRides, status)
		}
	} else if rawRides, ok := env.Data.([]any); ok {
		rides = NormalizeJobs(rawRides, status)
	}
	return RidesResult{Outcome: okOutcome(env.Message), Rides: rides}
}
