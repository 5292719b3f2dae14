package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldRecordID   = "record_id"
	FieldVendor     = "vendor"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldSignal     = "signal"
	FieldConfidence = "confidence"
	FieldRule       = "rule"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldModel      = "model"
)
