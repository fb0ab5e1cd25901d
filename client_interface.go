package storesync

import (
	"context"

	"github.com/google/uuid"
)

// Action is the operation discriminator of the remote tabular API.
type Action string

const (
	ActionFind   Action = "Find"
	ActionAdd    Action = "Add"
	ActionEdit   Action = "Edit"
	ActionDelete Action = "Delete"
)

// String returns the string representation
func (a Action) String() string {
	return string(a)
}

// Row is one record of a remote table: column name to value.
type Row map[string]any

// Clone returns a shallow copy of the row. Values are scalars or strings on
// the wire, so a per-key copy is enough to isolate callers.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// TableClient is the Record Service Client contract against the remote
// tabular store. Implementations live in the tabular package; the interface
// is defined here so the resolver, reader and writer do not import their own
// implementation package.
//
// None of the operations retries: Add is not idempotent (a retry would
// duplicate rows), and the callers own the failure policy.
type TableClient interface {
	// Find returns the rows of table matching the selector expression.
	// An empty selector matches the whole table.
	Find(ctx context.Context, table, selector string) ([]Row, error)

	// Add inserts rows into table, letting the remote store assign primary
	// keys, and returns the rows as stored.
	Add(ctx context.Context, table string, rows []Row) ([]Row, error)

	// Edit updates rows in place. Every row must carry the table's primary
	// key column.
	Edit(ctx context.Context, table string, rows []Row) (Row, error)

	// Delete removes the rows identified by keys. Each key row carries only
	// the primary-key column.
	Delete(ctx context.Context, table string, keys []Row) (Row, error)

	// DispatchBatch executes the given requests in parallel and waits for
	// all of them. There is no early cancellation: results are returned in
	// request order with per-request errors.
	DispatchBatch(ctx context.Context, reqs []BatchRequest) []BatchResult
}

// BatchRequest describes one operation for DispatchBatch.
type BatchRequest struct {
	RequestID uuid.UUID
	Table     string
	Action    Action
	Selector  string
	Rows      []Row
}

// BatchResult is the outcome of one batched request.
type BatchResult struct {
	RequestID uuid.UUID
	Table     string
	Rows      []Row
	Err       error
}

// NewFindRequest builds a batched Find descriptor. It is a pure function;
// nothing is sent until the descriptor is passed to DispatchBatch.
func NewFindRequest(table, selector string) BatchRequest {
	return BatchRequest{
		RequestID: uuid.New(),
		Table:     table,
		Action:    ActionFind,
		Selector:  selector,
	}
}
