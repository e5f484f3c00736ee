package recorder

import "codeberg.org/mutker/sysmond/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("recorder_invalid_db_path")

	// Schema errors
	ErrSchemaInitFailed       = errors.ErrorCode("recorder_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("recorder_schema_validation_failed")
	ErrTransactionFailed      = errors.ErrorCode("recorder_transaction_failed")

	// Storage errors
	ErrStorageInit  = errors.ErrInitRecorder
	ErrStorageClose = errors.ErrCloseRecorder

	// Recording errors
	ErrRecordFailed   = errors.ErrRecordSample
	ErrInvalidSample  = errors.ErrorCode("recorder_invalid_sample")
	ErrOperationAbort = errors.ErrTimeout
)
