package storesync_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeform/storesync"
	"github.com/storeform/storesync/tabular"
)

// recordingClient wraps the memory client, records the order of remote
// operations and optionally fails deletes against one table.
type recordingClient struct {
	*tabular.MemoryClient
	mu         sync.Mutex
	calls      []string
	failDelete string
}

func newRecordingClient() *recordingClient {
	return &recordingClient{MemoryClient: tabular.NewMemoryClient()}
}

func (r *recordingClient) record(action storesync.Action, table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("%s:%s", action, table))
}

func (r *recordingClient) Find(ctx context.Context, table, selector string) ([]storesync.Row, error) {
	r.record(storesync.ActionFind, table)
	return r.MemoryClient.Find(ctx, table, selector)
}

func (r *recordingClient) Add(ctx context.Context, table string, rows []storesync.Row) ([]storesync.Row, error) {
	r.record(storesync.ActionAdd, table)
	return r.MemoryClient.Add(ctx, table, rows)
}

func (r *recordingClient) Edit(ctx context.Context, table string, rows []storesync.Row) (storesync.Row, error) {
	r.record(storesync.ActionEdit, table)
	return r.MemoryClient.Edit(ctx, table, rows)
}

func (r *recordingClient) Delete(ctx context.Context, table string, keys []storesync.Row) (storesync.Row, error) {
	r.record(storesync.ActionDelete, table)
	if table == r.failDelete {
		return nil, storesync.NewRemoteCallError(table, storesync.ActionDelete, http.StatusInternalServerError, "backend down")
	}
	return r.MemoryClient.Delete(ctx, table, keys)
}

func (r *recordingClient) callIndex(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (r *recordingClient) hasCall(action storesync.Action, table string) bool {
	return r.callIndex(fmt.Sprintf("%s:%s", action, table)) >= 0
}

func newWriter(client storesync.TableClient) *storesync.Writer {
	resolver := storesync.NewResolver(client, zerolog.Nop())
	return storesync.NewWriter(client, resolver, zerolog.Nop())
}

func TestWriter_ReplacesChildRecordSets(t *testing.T) {
	client := tabular.NewMemoryClient()
	seedStore(client, "S1", "Store A")
	client.Seed(storesync.TableOutsourcingCosts,
		storesync.Row{storesync.ColID: "OLD1", storesync.ColStoreID: "S1", "Amount": 5},
		storesync.Row{storesync.ColID: "OLD2", storesync.ColStoreID: "S1", "Amount": 6},
	)

	doc := storesync.NewAggregateDocument("Store A")
	doc.OutsourcingCosts = []storesync.ChildRecord{
		{Fields: map[string]any{"Amount": 100}},
	}

	result := newWriter(client).Write(context.Background(), doc)
	require.True(t, result.Success, result.Error)

	rows, err := client.Find(context.Background(), storesync.TableOutsourcingCosts,
		storesync.EqSelector(storesync.ColStoreID, "S1"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 100, rows[0]["Amount"])
	assert.Equal(t, "S1", rows[0][storesync.ColStoreID])
	assert.NotEmpty(t, rows[0][storesync.ColID], "remote store assigns the key")
	assert.NotEqual(t, "OLD1", rows[0][storesync.ColID])
}

func TestWriter_NeverCreatesStoreImplicitly(t *testing.T) {
	client := newRecordingClient()

	doc := storesync.NewAggregateDocument("Unknown Store")
	doc.OutsourcingCosts = []storesync.ChildRecord{{Fields: map[string]any{"Amount": 1}}}

	result := newWriter(client).Write(context.Background(), doc)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown Store")
	for _, table := range storesync.ChildTableOrder {
		assert.False(t, client.hasCall(storesync.ActionFind, table), "no child call for %s", table)
		assert.False(t, client.hasCall(storesync.ActionAdd, table), "no insert for %s", table)
	}
}

func TestWriter_PhaseOrdering(t *testing.T) {
	client := newRecordingClient()
	seedStore(client.MemoryClient, "S1", "Store A")
	for _, table := range storesync.ChildTableOrder {
		client.MemoryClient.Seed(table, storesync.Row{storesync.ColID: "OLD-" + table, storesync.ColStoreID: "S1"})
	}

	doc := storesync.NewAggregateDocument("Store A")
	doc.Store = &storesync.Store{TeamName: "West"}
	doc.OutsourcingCosts = []storesync.ChildRecord{{Fields: map[string]any{"Amount": 100}}}
	doc.OrganizationCharts = []storesync.ChildRecord{{Fields: map[string]any{"Role": "Manager"}}}

	result := newWriter(client).Write(context.Background(), doc)
	require.True(t, result.Success, result.Error)

	// All deletes land before the parent update, which lands before any
	// insert; deletes follow the fixed child-table order.
	edit := client.callIndex("Edit:Stores")
	require.GreaterOrEqual(t, edit, 0)

	var lastDelete int
	for _, table := range storesync.ChildTableOrder {
		idx := client.callIndex(fmt.Sprintf("Delete:%s", table))
		require.GreaterOrEqual(t, idx, 0, "missing delete for %s", table)
		assert.Greater(t, idx, lastDelete-1)
		assert.Less(t, idx, edit)
		lastDelete = idx
	}

	for _, table := range []string{storesync.TableOutsourcingCosts, storesync.TableOrganizationCharts} {
		idx := client.callIndex(fmt.Sprintf("Add:%s", table))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, edit)
	}
}

func TestWriter_SkipsParentUpdateWithoutParentData(t *testing.T) {
	client := newRecordingClient()
	seedStore(client.MemoryClient, "S1", "Store A")

	doc := storesync.NewAggregateDocument("Store A")
	result := newWriter(client).Write(context.Background(), doc)

	require.True(t, result.Success, result.Error)
	assert.False(t, client.hasCall(storesync.ActionEdit, storesync.TableStores))
}

func TestWriter_DeleteFailureAbortsRemainingPhases(t *testing.T) {
	client := newRecordingClient()
	client.failDelete = storesync.TableOvertimeSubjects
	seedStore(client.MemoryClient, "S1", "Store A")
	for _, table := range storesync.ChildTableOrder {
		client.MemoryClient.Seed(table, storesync.Row{storesync.ColID: "OLD-" + table, storesync.ColStoreID: "S1"})
	}

	doc := storesync.NewAggregateDocument("Store A")
	doc.Store = &storesync.Store{TeamName: "West"}
	for _, table := range storesync.ChildTableOrder {
		doc.SetChildren(table, []storesync.ChildRecord{{Fields: map[string]any{"N": 1}}})
	}

	result := newWriter(client).Write(context.Background(), doc)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, storesync.TableOvertimeSubjects)
	assert.Contains(t, result.Error, "delete")

	// No later phase ran.
	assert.False(t, client.hasCall(storesync.ActionEdit, storesync.TableStores))
	for _, table := range storesync.ChildTableOrder {
		assert.False(t, client.hasCall(storesync.ActionAdd, table))
	}
	assert.False(t, client.hasCall(storesync.ActionDelete, storesync.TableOrganizationCharts))

	// The store is left partially updated: earlier tables already deleted,
	// the failing table and later ones untouched. A subsequent read shows
	// exactly that state; this consistency gap is part of the contract.
	reader := newReader(client)
	after, err := reader.Read(context.Background(), "Store A")
	require.NoError(t, err)
	assert.Empty(t, after.OutsourcingCosts)
	assert.Empty(t, after.RecruitmentMedia)
	assert.Len(t, after.OvertimeSubjects, 1)
	assert.Len(t, after.OrganizationCharts, 1)
}

func TestWriter_RoundTripWithReader(t *testing.T) {
	client := tabular.NewMemoryClient()
	seedStore(client, "S1", "Store A")

	doc := storesync.NewAggregateDocument("Store A")
	doc.RecruitmentMedia = []storesync.ChildRecord{
		{Fields: map[string]any{"Media": "Web"}},
		{Fields: map[string]any{"Media": "Paper"}},
		{Fields: map[string]any{"Media": "Referral"}},
	}

	result := newWriter(client).Write(context.Background(), doc)
	require.True(t, result.Success, result.Error)

	after, err := newReader(client).Read(context.Background(), "Store A")
	require.NoError(t, err)
	require.Len(t, after.RecruitmentMedia, 3)

	media := map[string]bool{}
	for _, rec := range after.RecruitmentMedia {
		assert.Equal(t, "S1", rec.StoreID)
		assert.NotEmpty(t, rec.ID)
		media[fmt.Sprint(rec.Fields["Media"])] = true
	}
	assert.Equal(t, map[string]bool{"Web": true, "Paper": true, "Referral": true}, media)
}
