package storesync

import (
	"context"

	"github.com/rs/zerolog"
)

// Resolver maps a store's display name to its internal StoreID. Resolution
// hits the remote store on every call: the external store is the single
// source of truth and may change between requests, so nothing is cached.
type Resolver struct {
	client TableClient
	logger zerolog.Logger
}

// NewResolver creates a resolver over the given client.
func NewResolver(client TableClient, logger zerolog.Logger) *Resolver {
	return &Resolver{client: client, logger: logger}
}

// Resolve returns the StoreID and full parent record for storeName.
// Zero matches fail with NOT_FOUND; more than one match is a data-integrity
// violation and fails with DUPLICATE_KEY.
func (r *Resolver) Resolve(ctx context.Context, storeName string) (string, *Store, error) {
	rows, err := r.client.Find(ctx, TableStores, EqSelector(ColStoreName, storeName))
	if err != nil {
		LogResolveFailed(r.logger, storeName, err)
		return "", nil, err
	}

	switch len(rows) {
	case 0:
		err := NewNotFoundError(storeName)
		LogResolveFailed(r.logger, storeName, err)
		return "", nil, err
	case 1:
		store := StoreFromRow(rows[0])
		LogResolveCompleted(r.logger, storeName, store.StoreID)
		return store.StoreID, store, nil
	default:
		err := NewDuplicateKeyError(storeName)
		LogResolveFailed(r.logger, storeName, err)
		return "", nil, err
	}
}
