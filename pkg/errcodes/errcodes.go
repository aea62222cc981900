package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Deal pipeline.
	InvalidFilter         failure.ErrorCode = "InvalidFilter"         // unparseable query filter value
	InvalidFinanceParams  failure.ErrorCode = "InvalidFinanceParams"  // principal / years / baseline out of range
	SourceUnavailable     failure.ErrorCode = "SourceUnavailable"     // adapter could not acquire candidates
	DealPersistenceFailed failure.ErrorCode = "DealPersistenceFailed" // single upsert failed
	DealQueryFailed       failure.ErrorCode = "DealQueryFailed"       // repository read failed
	IngestionRunFailed    failure.ErrorCode = "IngestionRunFailed"    // audit row could not be written
)
