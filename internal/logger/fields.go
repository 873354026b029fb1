package logger

// Standard field names for structured logging.
const (
	FieldComponent  = "component"
	FieldStage      = "stage"
	FieldFile       = "file"
	FieldModule     = "module"
	FieldCount      = "count"
	FieldErrors     = "errors"
	FieldWarnings   = "warnings"
	FieldDurationMS = "duration_ms"
	FieldWorkers    = "workers"
)
