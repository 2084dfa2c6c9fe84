package errors

import "strings"

// userMessagePatterns maps fragments of technical error text to prose the UI
// can show directly. First match wins, so more specific fragments go first.
var userMessagePatterns = []struct {
	fragments []string
	message   string
}{
	{[]string{"network error", "timeout", "timed out", "connection refused"},
		"Please check your internet connection and try again."},
	{[]string{"401", "authentication", "unauthorized"},
		"Your session has expired. Please login again."},
	{[]string{"403", "forbidden"},
		"You don't have permission to access this resource."},
	{[]string{"404", "not found"},
		"The requested resource could not be found."},
	{[]string{"500", "502", "503", "server error"},
		"Something went wrong on our end. Please try again later."},
	{[]string{"422", "validation"},
		"Some of the information provided is invalid. Please review and try again."},
}

// UserMessage converts a technical error into user-facing prose. The fallback
// is returned when no pattern matches and the error carries no message.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	appErr := AsAppError(err)
	switch appErr.Category {
	case CategoryNetwork:
		return "Please check your internet connection and try again."
	case CategoryAuth:
		return "Your session has expired. Please login again."
	}

	lower := strings.ToLower(appErr.Error())
	for _, p := range userMessagePatterns {
		for _, f := range p.fragments {
			if strings.Contains(lower, f) {
				return p.message
			}
		}
	}

	if appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
