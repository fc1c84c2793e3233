package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldPath       = "path"
	FieldDuration   = "duration_ms"
	FieldEventType  = "event_type"
	FieldEventID    = "event_id"
	FieldCycleStart = "cycle_start"
	FieldCycleEnd   = "cycle_end"
	FieldYear       = "year"
	FieldCount      = "count"
	FieldVersion    = "version"
)

// Component names.
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentDaemon  = "daemon"
	ComponentNotify  = "notify"
	ComponentImport  = "import"
	ComponentHTTP    = "http"
	ComponentCache   = "cache"
	ComponentCommand = "cmd"
	ComponentTUI     = "tui"
)

// Operation names.
const (
	OpMigrate  = "migrate"
	OpPoll     = "poll"
	OpPublish  = "publish"
	OpImport   = "import"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
