package codex

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeCall struct {
	op         SyncOp
	collection string
	docID      string
	doc        map[string]interface{}
}

type fakeStore struct {
	mu    sync.Mutex
	calls []storeCall
	fail  bool
}

func (f *fakeStore) Upsert(ctx context.Context, collection, docID string, doc map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("mirror down")
	}
	f.calls = append(f.calls, storeCall{op: OpUpsert, collection: collection, docID: docID, doc: doc})
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, collection, docID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("mirror down")
	}
	f.calls = append(f.calls, storeCall{op: OpDelete, collection: collection, docID: docID})
	return nil
}

func (f *fakeStore) snapshot() []storeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func TestMirrorSyncerDeliversUpserts(t *testing.T) {
	store := &fakeStore{}
	syncer := NewMirrorSyncer(store, 2, 16)

	syncer.EntitySaved(CollectionDomains, "tiempo", map[string]interface{}{"name": "Tiempo"})
	syncer.EntitySaved(CollectionGuides, "guia-1", map[string]interface{}{"title": "Guia"})
	syncer.Shutdown()

	calls := store.snapshot()
	require.Len(t, calls, 2)
	seen := map[string]SyncOp{}
	for _, c := range calls {
		seen[c.docID] = c.op
	}
	assert.Equal(t, OpUpsert, seen["tiempo"])
	assert.Equal(t, OpUpsert, seen["guia-1"])
}

func TestMirrorSyncerDeliversDeletes(t *testing.T) {
	store := &fakeStore{}
	syncer := NewMirrorSyncer(store, 1, 16)

	syncer.EntityDeleted(CollectionTraps, "42")
	syncer.Shutdown()

	calls := store.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, OpDelete, calls[0].op)
	assert.Equal(t, CollectionTraps, calls[0].collection)
	assert.Equal(t, "42", calls[0].docID)
}

func TestMirrorSyncerSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	syncer := NewMirrorSyncer(store, 1, 16)

	// failures are logged and dropped, never surfaced
	syncer.EntitySaved(CollectionDomains, "tiempo", map[string]interface{}{})
	syncer.EntityDeleted(CollectionDomains, "tiempo")
	syncer.Shutdown()

	assert.Empty(t, store.snapshot())
}

func TestMirrorSyncerIgnoresEventsAfterShutdown(t *testing.T) {
	store := &fakeStore{}
	syncer := NewMirrorSyncer(store, 1, 16)
	syncer.Shutdown()

	assert.NotPanics(t, func() {
		syncer.EntitySaved(CollectionDomains, "tarde", map[string]interface{}{})
		syncer.Shutdown()
	})
	assert.Empty(t, store.snapshot())
}

func TestMirrorSyncerDropsWhenChannelFull(t *testing.T) {
	store := &fakeStore{}
	// zero workers would deadlock; one worker, one slot, many events
	syncer := NewMirrorSyncer(store, 1, 1)

	for i := 0; i < 200; i++ {
		syncer.EntitySaved(CollectionAssets, "a", map[string]interface{}{})
	}
	syncer.Shutdown()

	// some events made it through, none blocked the producer
	assert.NotEmpty(t, store.snapshot())
}
