package tabular

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/storeform/storesync"
)

// MemoryClient implements storesync.TableClient using in-memory tables (for
// testing and local development). It mimics the remote store's observable
// behaviour: keys are assigned on Add, and operation failures carry the
// table name and a status code.
type MemoryClient struct {
	tables map[string][]storesync.Row
	mu     sync.RWMutex
}

// NewMemoryClient creates an empty in-memory tabular store
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		tables: make(map[string][]storesync.Row),
	}
}

// Seed inserts rows directly, bypassing key assignment. Intended for test
// fixtures.
func (m *MemoryClient) Seed(table string, rows ...storesync.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		m.tables[table] = append(m.tables[table], row.Clone())
	}
}

// Find returns the rows of table matching the selector expression.
func (m *MemoryClient) Find(ctx context.Context, table, selector string) ([]storesync.Row, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, storesync.NewRemoteCallError(table, storesync.ActionFind, http.StatusBadRequest, err.Error())
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []storesync.Row{}
	for _, row := range m.tables[table] {
		if sel.matches(row) {
			matched = append(matched, row.Clone())
		}
	}
	return matched, nil
}

// Add inserts rows, assigning a fresh key to any row missing one.
func (m *MemoryClient) Add(ctx context.Context, table string, rows []storesync.Row) ([]storesync.Row, error) {
	key := storesync.KeyColumn(table)

	m.mu.Lock()
	defer m.mu.Unlock()

	added := make([]storesync.Row, 0, len(rows))
	for _, row := range rows {
		stored := row.Clone()
		if valueString(stored[key]) == "" {
			stored[key] = uuid.NewString()
		}
		m.tables[table] = append(m.tables[table], stored)
		added = append(added, stored.Clone())
	}
	return added, nil
}

// Edit replaces stored rows by primary key.
func (m *MemoryClient) Edit(ctx context.Context, table string, rows []storesync.Row) (storesync.Row, error) {
	key := storesync.KeyColumn(table)

	m.mu.Lock()
	defer m.mu.Unlock()

	var last storesync.Row
	for _, row := range rows {
		id := valueString(row[key])
		if id == "" {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionEdit, http.StatusBadRequest,
				"edit requires the "+key+" column")
		}

		idx := m.indexOf(table, key, id)
		if idx < 0 {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionEdit, http.StatusNotFound,
				"row "+id+" not found")
		}

		m.tables[table][idx] = row.Clone()
		last = row.Clone()
	}
	return last, nil
}

// Delete removes the rows identified by the key rows. Unknown keys are
// ignored, matching the remote store's idempotent delete.
func (m *MemoryClient) Delete(ctx context.Context, table string, keys []storesync.Row) (storesync.Row, error) {
	key := storesync.KeyColumn(table)

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for _, keyRow := range keys {
		id := valueString(keyRow[key])
		if id == "" {
			return nil, storesync.NewRemoteCallError(table, storesync.ActionDelete, http.StatusBadRequest,
				"delete requires the "+key+" column")
		}

		if idx := m.indexOf(table, key, id); idx >= 0 {
			m.tables[table] = append(m.tables[table][:idx], m.tables[table][idx+1:]...)
			deleted++
		}
	}
	return storesync.Row{"Deleted": deleted}, nil
}

// DispatchBatch executes the requests in parallel and waits for all.
func (m *MemoryClient) DispatchBatch(ctx context.Context, reqs []storesync.BatchRequest) []storesync.BatchResult {
	return dispatchBatch(ctx, m, reqs)
}

// indexOf must be called with the mutex held.
func (m *MemoryClient) indexOf(table, key, id string) int {
	for i, row := range m.tables[table] {
		if valueString(row[key]) == id {
			return i
		}
	}
	return -1
}
