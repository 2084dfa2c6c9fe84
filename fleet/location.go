package fleet

import (
	"context"
	"math"
)

// PublishLocation posts one GPS sample to the streaming ingestion endpoint.
// Timestamp must already be ISO-8601.
func (s *Services) PublishLocation(ctx context.Context, driverID int, sample LocationSample) Outcome {
	if math.IsNaN(sample.Latitude) || math.IsNaN(sample.Longitude) {
		return Outcome{Success: false, Message: "coordinates must be numbers"}
	}
	if math.Abs(sample.Latitude) > 90 || math.Abs(sample.Longitude) > 180 {
		return Outcome{Success: false, Message: "coordinates out of range"}
	}

	env, err := s.client.Post(ctx, "/driver/location", map[string]any{
		"driver_id": driverID,
		"latitude":  sample.Latitude,
		"longitude": sample.Longitude,
		"timestamp": sample.Timestamp,
	})
	if err != nil {
		return failOutcome(err)
	}
	if !env.Success {
		return envelopeFail(env)
	}
	return okOutcome(env.Message)
}
