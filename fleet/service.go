package fleet

import (
	"log/slog"

	"drivemate/api"
	apperrors "drivemate/shared/errors"
	"drivemate/shared/logger"
)

// Outcome is the uniform result every service call carries: the envelope's
// success/message pair plus the categorized error when the call failed below
// the envelope (network, auth, validation).
type Outcome struct {
	Success bool
	Message string
	Err     error
}

func okOutcome(message string) Outcome {
	if message == "" {
		message = "ok"
	}
	return Outcome{Success: true, Message: message}
}

func failOutcome(err error) Outcome {
	appErr := apperrors.AsAppError(err)
	return Outcome{Success: false, Message: appErr.Message, Err: appErr}
}

func envelopeFail(env *api.Envelope) Outcome {
	msg := env.Message
	if msg == "" {
		msg = "request failed"
	}
	return Outcome{Success: false, Message: msg}
}

// Services is the thin per-endpoint wrapper layer between the store and the
// API client. Each method normalizes field aliases, applies defaults and
// never panics out of a call.
type Services struct {
	client *api.Client
	log    *slog.Logger
}

func NewServices(client *api.Client, log *slog.Logger) *Services {
	return &Services{
		client: client,
		log:    logger.WithComponent(log, "fleet"),
	}
}
