package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTransactionID  = "transaction_id"
	FieldCategoryID     = "category_id"
	FieldBudgetID       = "budget_id"
	FieldAlertID        = "alert_id"
	FieldAlertType      = "alert_type"
	FieldAmountCents    = "amount_cents"
	FieldPercentageUsed = "percentage_used"
	FieldExportID       = "export_id"
	FieldExportFormat   = "format"
	FieldRecordCount    = "records"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentBudget    = "budget"
	ComponentExport    = "export"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentNotify    = "notify"
	ComponentShare     = "share"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpExport   = "export"
	OpEvaluate = "evaluate"
	OpPublish  = "publish"
	OpNotify   = "notify"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
