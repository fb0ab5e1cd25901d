package storesync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reader assembles the aggregate document for one store: the parent record
// plus all four child record sets, fetched concurrently.
type Reader struct {
	client   TableClient
	resolver *Resolver
	logger   zerolog.Logger
}

// NewReader creates a reader over the given client.
func NewReader(client TableClient, resolver *Resolver, logger zerolog.Logger) *Reader {
	return &Reader{client: client, resolver: resolver, logger: logger}
}

// Read resolves storeName and fetches the four child tables as one parallel
// batch. The read is all-or-nothing: every batched fetch runs to completion,
// and any failed fetch fails the whole read with PARTIAL_FETCH_FAILURE
// naming the offending table. No partial document is ever returned.
func (r *Reader) Read(ctx context.Context, storeName string) (*AggregateDocument, error) {
	LogReadStarted(r.logger, storeName)
	start := time.Now()

	storeID, parent, err := r.resolver.Resolve(ctx, storeName)
	if err != nil {
		return nil, err
	}

	reqs := make([]BatchRequest, 0, len(ChildTableOrder))
	for _, table := range ChildTableOrder {
		reqs = append(reqs, NewFindRequest(table, EqSelector(ColStoreID, storeID)))
	}

	results := r.client.DispatchBatch(ctx, reqs)

	doc := NewAggregateDocument(storeName)
	doc.Store = parent
	for _, res := range results {
		if res.Err != nil {
			LogChildFetchFailed(r.logger, storeName, res.Table, res.Err)
			return nil, NewPartialFetchError(res.Table, res.Err)
		}
		doc.SetChildren(res.Table, childRecordsFromRows(res.Rows))
	}

	LogReadCompleted(r.logger, storeName, time.Since(start))
	return doc, nil
}
