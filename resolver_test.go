package storesync_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeform/storesync"
	"github.com/storeform/storesync/tabular"
)

func seedStore(client *tabular.MemoryClient, storeID, storeName string) {
	client.Seed(storesync.TableStores, storesync.Row{
		storesync.ColStoreID:     storeID,
		storesync.ColStoreName:   storeName,
		storesync.ColCompanyName: "Acme",
		storesync.ColTeamName:    "East",
		storesync.ColInterviewer: "Tanaka",
	})
}

func TestResolver_ExactlyOneMatch(t *testing.T) {
	client := tabular.NewMemoryClient()
	seedStore(client, "S1", "Store A")
	seedStore(client, "S2", "Store B")

	resolver := storesync.NewResolver(client, zerolog.Nop())

	storeID, store, err := resolver.Resolve(context.Background(), "Store A")
	require.NoError(t, err)
	assert.Equal(t, "S1", storeID)
	require.NotNil(t, store)
	assert.Equal(t, "Store A", store.StoreName)
	assert.Equal(t, "Acme", store.CompanyName)
}

func TestResolver_ZeroMatches(t *testing.T) {
	client := tabular.NewMemoryClient()
	resolver := storesync.NewResolver(client, zerolog.Nop())

	_, _, err := resolver.Resolve(context.Background(), "Unknown Store")
	require.Error(t, err)
	assert.True(t, storesync.IsNotFound(err))
	assert.Contains(t, err.Error(), "Unknown Store")
}

func TestResolver_DuplicateMatches(t *testing.T) {
	client := tabular.NewMemoryClient()
	seedStore(client, "S1", "Store A")
	seedStore(client, "S9", "Store A")

	resolver := storesync.NewResolver(client, zerolog.Nop())

	_, _, err := resolver.Resolve(context.Background(), "Store A")
	require.Error(t, err)
	assert.True(t, storesync.IsDuplicateKey(err))
	assert.Contains(t, err.Error(), "Store A")
}

func TestResolver_NoCachingBetweenCalls(t *testing.T) {
	client := tabular.NewMemoryClient()
	resolver := storesync.NewResolver(client, zerolog.Nop())

	_, _, err := resolver.Resolve(context.Background(), "Store A")
	assert.True(t, storesync.IsNotFound(err))

	// The store appears between calls; the next resolution must see it.
	seedStore(client, "S1", "Store A")

	storeID, _, err := resolver.Resolve(context.Background(), "Store A")
	require.NoError(t, err)
	assert.Equal(t, "S1", storeID)
}
