package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSource    = "source"
	FieldWorkerID  = "worker_id"

	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldTimer      = "timer"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldLineIndex = "line_index"
	FieldRawLine   = "raw_line"
	FieldReason    = "reason"
)
