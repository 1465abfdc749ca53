package logging

// Standardized field names for structured logging.
// Every component logs the same concept under the same key so log output can be
// filtered by transaction, rule or merchant regardless of which stage emitted it.
const (
	FieldTransactionID = "transaction_id"
	FieldParentID      = "parent_id"
	FieldRuleID        = "rule_id"
	FieldAliasID       = "alias_id"
	FieldMerchant      = "merchant"
	FieldTag           = "tag"
	FieldCategory      = "category"
	FieldConfidence    = "confidence"
	FieldStrategy      = "strategy"
	FieldReason        = "reason"
	FieldFrequency     = "frequency"
	FieldOperation     = "operation"
	FieldBackend       = "backend"
	FieldFile          = "file_path"
	FieldCount         = "count"
	FieldDuration      = "duration_ms"
)
