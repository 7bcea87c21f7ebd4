package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldRunID        = "run_id"
	FieldEngine       = "engine"
	FieldPattern      = "pattern"
	FieldPhase        = "phase"
	FieldInputCount   = "inputs"
	FieldValidPattern = "valid_pattern"
	FieldOperation    = "operation"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("done", logger.Fields("engine", "go", "inputs", 3))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
