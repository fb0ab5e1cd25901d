// Package tabular provides TableClient implementations for the remote
// row-oriented store. The storesync.TableClient interface is defined in the
// parent package to avoid import cycles between the orchestration core and
// its client implementations.
//
// This package contains concrete implementations:
//   - HTTPClient: the production client against the tabular store's
//     Find/Add/Edit/Delete action endpoints
//   - MemoryClient: in-memory backend for testing and local development
//   - DynamoStore: AWS DynamoDB backend exposing the same table contract
package tabular

import (
	"context"
	"fmt"
	"sync"

	"github.com/storeform/storesync"
)

// dispatchBatch is the shared parallel-fetch primitive: every request runs
// in its own goroutine and the call joins on all of them. There is no early
// cancellation; results keep request order.
func dispatchBatch(ctx context.Context, c storesync.TableClient, reqs []storesync.BatchRequest) []storesync.BatchResult {
	results := make([]storesync.BatchResult, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req storesync.BatchRequest) {
			defer wg.Done()
			results[i] = executeOne(ctx, c, req)
		}(i, req)
	}
	wg.Wait()

	return results
}

func executeOne(ctx context.Context, c storesync.TableClient, req storesync.BatchRequest) storesync.BatchResult {
	res := storesync.BatchResult{RequestID: req.RequestID, Table: req.Table}

	switch req.Action {
	case storesync.ActionFind:
		res.Rows, res.Err = c.Find(ctx, req.Table, req.Selector)
	case storesync.ActionAdd:
		res.Rows, res.Err = c.Add(ctx, req.Table, req.Rows)
	case storesync.ActionEdit:
		row, err := c.Edit(ctx, req.Table, req.Rows)
		if err == nil {
			res.Rows = []storesync.Row{row}
		}
		res.Err = err
	case storesync.ActionDelete:
		row, err := c.Delete(ctx, req.Table, req.Rows)
		if err == nil {
			res.Rows = []storesync.Row{row}
		}
		res.Err = err
	default:
		res.Err = fmt.Errorf("tabular: unsupported batch action %q", req.Action)
	}

	return res
}
