package storesync

import (
	"fmt"
	"time"
)

// Error codes
const (
	ErrCodeConfigurationMissing = "CONFIGURATION_MISSING"
	ErrCodeRemoteCallFailed     = "REMOTE_CALL_FAILED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeDuplicateKey         = "DUPLICATE_KEY"
	ErrCodePartialFetch         = "PARTIAL_FETCH_FAILURE"
	ErrCodeWrite                = "WRITE_ERROR"
)

// SyncError represents a failure anywhere in the synchronization core.
type SyncError struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Table      string    `json:"table,omitempty"`
	Action     Action    `json:"action,omitempty"`
	StatusCode int       `json:"statusCode,omitempty"`
	Phase      string    `json:"phase,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Error implements the error interface
func (e *SyncError) Error() string {
	switch {
	case e.Phase != "" && e.Table != "":
		return fmt.Sprintf("[%s] %s (phase: %s, table: %s)", e.Code, e.Message, e.Phase, e.Table)
	case e.Table != "" && e.StatusCode != 0:
		return fmt.Sprintf("[%s] %s (table: %s, status: %d)", e.Code, e.Message, e.Table, e.StatusCode)
	case e.Table != "":
		return fmt.Sprintf("[%s] %s (table: %s)", e.Code, e.Message, e.Table)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// NewConfigurationError reports required settings missing at startup.
func NewConfigurationError(message string) *SyncError {
	return &SyncError{
		Code:      ErrCodeConfigurationMissing,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewRemoteCallError reports a non-success status from the remote tabular
// store for a single operation.
func NewRemoteCallError(table string, action Action, statusCode int, message string) *SyncError {
	return &SyncError{
		Code:       ErrCodeRemoteCallFailed,
		Message:    message,
		Table:      table,
		Action:     action,
		StatusCode: statusCode,
		Timestamp:  time.Now(),
	}
}

// NewNotFoundError reports that no store matched the requested name.
func NewNotFoundError(storeName string) *SyncError {
	return &SyncError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("store %q not found", storeName),
		Table:     TableStores,
		Timestamp: time.Now(),
	}
}

// NewDuplicateKeyError reports more than one store matching a name that must
// be unique. This is a data-integrity violation, not a transient condition.
func NewDuplicateKeyError(storeName string) *SyncError {
	return &SyncError{
		Code:      ErrCodeDuplicateKey,
		Message:   fmt.Sprintf("store name %q matches more than one record", storeName),
		Table:     TableStores,
		Timestamp: time.Now(),
	}
}

// NewPartialFetchError reports that one of the concurrent child-table
// fetches failed during an aggregate read.
func NewPartialFetchError(table string, cause error) *SyncError {
	e := &SyncError{
		Code:      ErrCodePartialFetch,
		Message:   fmt.Sprintf("child fetch failed: %v", cause),
		Table:     table,
		Timestamp: time.Now(),
	}
	if se, ok := cause.(*SyncError); ok {
		e.StatusCode = se.StatusCode
	}
	return e
}

// NewWriteError wraps a failure during one phase of the multi-phase write.
func NewWriteError(phase, table string, cause error) *SyncError {
	e := &SyncError{
		Code:      ErrCodeWrite,
		Message:   cause.Error(),
		Table:     table,
		Phase:     phase,
		Timestamp: time.Now(),
	}
	if se, ok := cause.(*SyncError); ok {
		e.StatusCode = se.StatusCode
		if e.Action == "" {
			e.Action = se.Action
		}
	}
	return e
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := err.(*SyncError); ok {
		return se.Code
	}
	return ""
}

// IsNotFound checks if an error is a NOT_FOUND resolution failure
func IsNotFound(err error) bool {
	return errorCode(err) == ErrCodeNotFound
}

// IsDuplicateKey checks if an error is a DUPLICATE_KEY resolution failure
func IsDuplicateKey(err error) bool {
	return errorCode(err) == ErrCodeDuplicateKey
}

// IsRemoteCallFailed checks if an error is a failed remote call
func IsRemoteCallFailed(err error) bool {
	return errorCode(err) == ErrCodeRemoteCallFailed
}

// IsPartialFetch checks if an error is a partial aggregate-read failure
func IsPartialFetch(err error) bool {
	return errorCode(err) == ErrCodePartialFetch
}

// IsConfigurationMissing checks if an error reports absent startup settings
func IsConfigurationMissing(err error) bool {
	return errorCode(err) == ErrCodeConfigurationMissing
}
