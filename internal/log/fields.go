package log

// Standard field names used across the application
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration"

	FieldSiteID    = "site_id"
	FieldWorkerID  = "worker_id"
	FieldRecordID  = "record_id"
	FieldCount     = "count"
	FieldAmount    = "amount"
	FieldKind      = "kind"
	FieldForm      = "form"
	FieldFilename  = "filename"
	FieldQueue     = "queue"
	FieldExchange  = "exchange"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldRemoteIP  = "remote_ip"
	FieldUserAgent = "user_agent"
)

// Component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStorage = "storage"
	ComponentLedger  = "ledger"
	ComponentReport  = "report"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentService = "service"
)

// Operation names for tracing flows across components
const (
	OpCreateSite    = "create_site"
	OpDeleteSite    = "delete_site"
	OpCreateWorker  = "create_worker"
	OpHajariBatch   = "hajari_batch"
	OpRecordPayment = "record_payment"
	OpGenerate      = "generate_report"
	OpExport        = "export_report"
	OpPublish       = "publish"
	OpConsume       = "consume"
)
