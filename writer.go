package storesync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Write phases, in execution order.
const (
	PhaseResolve = "resolve"
	PhaseDelete  = "delete"
	PhaseUpdate  = "update"
	PhaseInsert  = "insert"
)

// Writer replaces a store's child record sets and updates the parent record
// with an ordered delete-then-insert pseudo-transaction.
//
// The remote store offers no cross-table transaction, so consistency is
// approximated by phase ordering alone: deletes land fully, table by table,
// before any insert runs. A failure partway through leaves the remote store
// partially updated (for example, children deleted but not reinserted).
// This is a documented limitation; no rollback or compensating action is
// attempted, and nothing is retried.
type Writer struct {
	client   TableClient
	resolver *Resolver
	logger   zerolog.Logger
}

// NewWriter creates a writer over the given client.
func NewWriter(client TableClient, resolver *Resolver, logger zerolog.Logger) *Writer {
	return &Writer{client: client, resolver: resolver, logger: logger}
}

// Write performs the multi-phase save and never returns a Go error: every
// failure is converted into a WriteResult so the calling form can always
// render a response.
func (w *Writer) Write(ctx context.Context, doc *AggregateDocument) WriteResult {
	LogWriteStarted(w.logger, doc.StoreName)
	start := time.Now()

	if err := w.write(ctx, doc); err != nil {
		return WriteResult{Success: false, Error: err.Error()}
	}

	LogWriteCompleted(w.logger, doc.StoreName, time.Since(start))
	return WriteResult{Success: true}
}

func (w *Writer) write(ctx context.Context, doc *AggregateDocument) error {
	// A write never creates a store implicitly; an unknown name fails here.
	storeID, _, err := w.resolver.Resolve(ctx, doc.StoreName)
	if err != nil {
		LogWriteFailed(w.logger, doc.StoreName, PhaseResolve, TableStores, err)
		return err
	}

	// Delete phase. Tables are processed sequentially in the fixed order so
	// that every delete has landed before the insert phase starts.
	for _, table := range ChildTableOrder {
		if err := w.deleteChildren(ctx, table, storeID); err != nil {
			werr := NewWriteError(PhaseDelete, table, err)
			LogWriteFailed(w.logger, doc.StoreName, PhaseDelete, table, err)
			return werr
		}
	}
	LogWritePhaseCompleted(w.logger, doc.StoreName, PhaseDelete)

	// Parent update, only when the document carries parent field data.
	if doc.Store != nil {
		row := doc.Store.Row()
		row[ColStoreID] = storeID
		if _, err := w.client.Edit(ctx, TableStores, []Row{row}); err != nil {
			werr := NewWriteError(PhaseUpdate, TableStores, err)
			LogWriteFailed(w.logger, doc.StoreName, PhaseUpdate, TableStores, err)
			return werr
		}
		LogWritePhaseCompleted(w.logger, doc.StoreName, PhaseUpdate)
	}

	// Insert phase: one batched Add per child table that has incoming rows,
	// each row stamped with the resolved StoreID as foreign key.
	for _, table := range ChildTableOrder {
		records := doc.Children(table)
		if len(records) == 0 {
			continue
		}
		rows := make([]Row, 0, len(records))
		for _, rec := range records {
			rec.StoreID = storeID
			rec.ID = ""
			rows = append(rows, rec.Row())
		}
		if _, err := w.client.Add(ctx, table, rows); err != nil {
			werr := NewWriteError(PhaseInsert, table, err)
			LogWriteFailed(w.logger, doc.StoreName, PhaseInsert, table, err)
			return werr
		}
	}
	LogWritePhaseCompleted(w.logger, doc.StoreName, PhaseInsert)

	return nil
}

func (w *Writer) deleteChildren(ctx context.Context, table, storeID string) error {
	existing, err := w.client.Find(ctx, table, EqSelector(ColStoreID, storeID))
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	keys := make([]Row, 0, len(existing))
	for _, row := range existing {
		keys = append(keys, Row{ColID: row[ColID]})
	}
	_, err = w.client.Delete(ctx, table, keys)
	return err
}
