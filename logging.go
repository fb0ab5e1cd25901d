package storesync

import (
	"time"

	"github.com/rs/zerolog"
)

// Log event names
const (
	// Resolution events
	EventResolveCompleted = "resolve_completed"
	EventResolveFailed    = "resolve_failed"

	// Aggregate read events
	EventReadStarted      = "aggregate_read_started"
	EventReadCompleted    = "aggregate_read_completed"
	EventReadFailed       = "aggregate_read_failed"
	EventChildFetchFailed = "child_fetch_failed"

	// Write events
	EventWriteStarted        = "write_started"
	EventWritePhaseCompleted = "write_phase_completed"
	EventWriteFailed         = "write_failed"
	EventWriteCompleted      = "write_completed"
)

// LogResolveCompleted logs a successful store-name resolution
func LogResolveCompleted(logger zerolog.Logger, storeName, storeID string) {
	logger.Debug().
		Str("event", EventResolveCompleted).
		Str("store_name", storeName).
		Str("store_id", storeID).
		Msg("Store name resolved")
}

// LogResolveFailed logs a failed store-name resolution
func LogResolveFailed(logger zerolog.Logger, storeName string, err error) {
	logger.Error().
		Str("event", EventResolveFailed).
		Str("store_name", storeName).
		Err(err).
		Msg("Store name resolution failed")
}

// LogReadStarted logs the start of an aggregate read
func LogReadStarted(logger zerolog.Logger, storeName string) {
	logger.Info().
		Str("event", EventReadStarted).
		Str("store_name", storeName).
		Msg("Aggregate read started")
}

// LogReadCompleted logs a completed aggregate read
func LogReadCompleted(logger zerolog.Logger, storeName string, duration time.Duration) {
	logger.Info().
		Str("event", EventReadCompleted).
		Str("store_name", storeName).
		Dur("duration", duration).
		Msg("Aggregate read completed")
}

// LogChildFetchFailed logs a failed child-table fetch within a batch
func LogChildFetchFailed(logger zerolog.Logger, storeName, table string, err error) {
	logger.Error().
		Str("event", EventChildFetchFailed).
		Str("store_name", storeName).
		Str("table", table).
		Err(err).
		Msg("Child table fetch failed")
}

// LogWriteStarted logs the start of a multi-phase write
func LogWriteStarted(logger zerolog.Logger, storeName string) {
	logger.Info().
		Str("event", EventWriteStarted).
		Str("store_name", storeName).
		Msg("Write started")
}

// LogWritePhaseCompleted logs the completion of one write phase
func LogWritePhaseCompleted(logger zerolog.Logger, storeName, phase string) {
	logger.Debug().
		Str("event", EventWritePhaseCompleted).
		Str("store_name", storeName).
		Str("phase", phase).
		Msg("Write phase completed")
}

// LogWriteFailed logs an aborted write. Remaining phases do not run; the
// remote store may be left partially updated.
func LogWriteFailed(logger zerolog.Logger, storeName, phase, table string, err error) {
	logger.Error().
		Str("event", EventWriteFailed).
		Str("store_name", storeName).
		Str("phase", phase).
		Str("table", table).
		Err(err).
		Msg("Write failed")
}

// LogWriteCompleted logs a fully completed write
func LogWriteCompleted(logger zerolog.Logger, storeName string, duration time.Duration) {
	logger.Info().
		Str("event", EventWriteCompleted).
		Str("store_name", storeName).
		Dur("duration", duration).
		Msg("Write completed")
}
