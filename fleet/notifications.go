package fleet

import "context"

type NotificationsResult struct {
	Outcome
	Notifications []Notification
}

// Notifications lists the driver's notifications.
func (s *Services) Notifications(ctx context.Context, driverID int) NotificationsResult {
	env, err := s.client.Post(ctx, "/driver/notifications", map[string]any{"driver_id": driverID})
	if err != nil {
		return NotificationsResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return NotificationsResult{Outcome: envelopeFail(env)}
	}

	items := []Notification{}
	appendRaw := func(raw []any) {
		for _, item := range raw {
			if m, ok := item.(map[string]any); ok {
				items = append(items, NormalizeNotification(m))
			}
		}
	}
	if data := env.DataMap(); data != nil {
		if raw, ok := data["notifications"].([]any); ok {
			appendRaw(raw)
		}
	} else if raw, ok := env.Data.([]any); ok {
		appendRaw(raw)
	}
	return NotificationsResult{Outcome: okOutcome(env.Message), Notifications: items}
}

// MarkNotificationRead flags one notification as read on the server.
func (s *Services) MarkNotificationRead(ctx context.Context, driverID, notificationID int) Outcome {
	if notificationID <= 0 {
		return Outcome{Success: false, Message: "a valid notification id is required"}
	}
	env, err := s.client.Post(ctx, "/driver/notifications/read", map[string]any{
		"driver_id":       driverID,
		"notification_id": notificationID,
	})
	if err != nil {
		return failOutcome(err)
	}
	if !env.Success {
		return envelopeFail(env)
	}
	return okOutcome(env.Message)
}
