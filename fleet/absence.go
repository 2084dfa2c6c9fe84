package fleet

import (
	"context"
	"time"
)

// absentDateFormats are the inputs the form layer is known to produce.
var absentDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// normalizeAbsentDate coerces any recognized date input to YYYY-MM-DD.
func normalizeAbsentDate(raw string) (string, bool) {
	for _, layout := range absentDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// MarkAbsent reports the driver unavailable for one calendar day.
func (s *Services) MarkAbsent(ctx context.Context, driverID int, date string) Outcome {
	normalized, ok := normalizeAbsentDate(date)
	if !ok {
		return Outcome{Success: false, Message: "absent date must be a valid calendar date"}
	}

	env, err := s.client.Post(ctx, "/driver/mark-absent", map[string]any{
		"driver_id":   driverID,
		"absent_date": normalized,
	})
	if err != nil {
		return failOutcome(err)
	}
	if !env.Success {
		return envelopeFail(env)
	}
	return okOutcome(env.Message)
}
