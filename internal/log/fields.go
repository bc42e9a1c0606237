package log

// Component names used across the application
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAuth      = "auth"
	ComponentDashboard = "dashboard"
	ComponentRecords   = "records"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
)

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldRecordID  = "record_id"
	FieldRecord    = "record_kind"
	FieldEmail     = "email"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldTraceID   = "trace_id"
	FieldQueue     = "queue"
	FieldExchange  = "exchange"
	FieldAttempt   = "attempt"
	FieldCount     = "count"
	FieldYear      = "year"
	FieldMonth     = "month"
)
