package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUserID  = "user_id"
	FieldHabitID = "habit_id"
	FieldEntryID = "entry_id"
	FieldDate    = "date"
	FieldYear    = "year"
	FieldMonth   = "month"
	FieldMood    = "mood"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentJournal = "journal"
	ComponentHistory = "history"
	ComponentStorage = "storage"
	ComponentAuth    = "auth"
	ComponentSeed    = "seed"
)

// Operations defines standard operation names
const (
	OpSubmit   = "submit"
	OpRead     = "read"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpList     = "list"
	OpLogin    = "login"
	OpSignup   = "signup"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
