package api

import (
	"sort"
	"strings"
)

// ErrHTMLResponse marks a response whose body was a web page instead of
// JSON, which on this backend means the endpoint is not deployed. Callers
// may use it to fall back to optimistic local state.
const ErrHTMLResponse = "HTML_RESPONSE"

// Envelope is the uniform shape every endpoint response is normalized into.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// DataMap returns the payload as an object, or nil when it is absent or has
// another shape.
func (e *Envelope) DataMap() map[string]any {
	if m, ok := e.Data.(map[string]any); ok {
		return m
	}
	return nil
}

// isHTMLBody reports whether the body starts with an HTML doctype or tag.
func isHTMLBody(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

// flattenFieldErrors joins a 422 body's {field: [messages]} map into one
// user message, fields in stable order.
func flattenFieldErrors(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}

	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var msgs []string
	for _, field := range fields {
		switch v := m[field].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
		case string:
			msgs = append(msgs, v)
		}
	}
	return strings.Join(msgs, ", ")
}
