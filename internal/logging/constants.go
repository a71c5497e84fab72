package logging

// Standardized field names for structured logging. Using the same keys
// everywhere keeps log output filterable across the pipeline stages.
const (
	FieldTransactionKey = "transaction_key"
	FieldMerchant       = "merchant"
	FieldPractice       = "practice"
	FieldOperation      = "operation"
	FieldStage          = "stage"
	FieldCount          = "count"
	FieldPendingCount   = "pending_count"
	FieldAnalyzedCount  = "analyzed_count"
	FieldModel          = "model"
	FieldDuration       = "duration_ms"
	FieldError          = "error"
	FieldUser           = "user"
	FieldFile           = "file_path"
)
