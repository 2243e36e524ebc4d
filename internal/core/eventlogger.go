package core

// EventLogger records domain events without coupling core to the
// observability package. Implementations must be safe for a nil-checked
// optional dependency: services treat a nil logger as "observability
// disabled".
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
