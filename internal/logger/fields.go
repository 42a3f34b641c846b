package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, carried on the context through a call chain.
const (
	FieldRequestID  = "request_id"
	FieldSessionID  = "session_id"
	FieldCollection = "collection"
	FieldComponent  = "component"
)

// Metric fields, attached to single entries.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldPage       = "page"
	FieldStatus     = "status"
	FieldSize       = "size"
)
