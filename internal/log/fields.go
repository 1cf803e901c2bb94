package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"
	FieldStatus    = "status_code"
	FieldDuration  = "duration_ms"
	FieldUserAgent = "user_agent"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldBillID    = "bill_id"
	FieldBillTitle = "bill_title"
	FieldAmount    = "amount"
	FieldBillType  = "bill_type"
	FieldCategory  = "category"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldSender    = "sender"
	FieldAction    = "action"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStats     = "stats"
	ComponentChat      = "chat"
	ComponentAssistant = "assistant"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentCache     = "cache"
)
