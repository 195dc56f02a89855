package codex

import (
	"context"
	"log"
	"sync"

	"nexoecos/internal/common"
)

type SyncOp string

const (
	OpUpsert SyncOp = "upsert"
	OpDelete SyncOp = "delete"
)

type SyncEvent struct {
	Op         SyncOp
	Collection string
	DocID      string
	Doc        map[string]interface{}
}

// Syncer receives post-commit hooks from the codex repositories
type Syncer interface {
	EntitySaved(collection, docID string, doc map[string]interface{})
	EntityDeleted(collection, docID string)
}

// MirrorSyncer pushes projection events to the document store through a
// buffered channel and a small worker pool, so a slow or failing mirror
// never delays the relational save that triggered it. Mirror failures
// are logged and dropped: the document store is a best-effort read-side
// copy, not the source of truth.
type MirrorSyncer struct {
	store        common.DocumentStore
	eventChannel chan SyncEvent
	workerPool   int
	mu           sync.RWMutex
	closed       bool
	wg           sync.WaitGroup
}

func NewMirrorSyncer(store common.DocumentStore, workerPoolSize, bufferSize int) *MirrorSyncer {
	if workerPoolSize <= 0 {
		workerPoolSize = 1
	}
	if bufferSize <= 0 {
		bufferSize = 256
	}

	ms := &MirrorSyncer{
		store:        store,
		eventChannel: make(chan SyncEvent, bufferSize),
		workerPool:   workerPoolSize,
	}

	for i := 0; i < workerPoolSize; i++ {
		ms.wg.Add(1)
		go ms.processEvents()
	}

	return ms
}

// EntitySaved enqueues an upsert. Never blocks: when the channel is
// full the event is dropped and logged.
func (ms *MirrorSyncer) EntitySaved(collection, docID string, doc map[string]interface{}) {
	ms.enqueue(SyncEvent{Op: OpUpsert, Collection: collection, DocID: docID, Doc: doc})
}

// EntityDeleted enqueues a document removal
func (ms *MirrorSyncer) EntityDeleted(collection, docID string) {
	ms.enqueue(SyncEvent{Op: OpDelete, Collection: collection, DocID: docID})
}

func (ms *MirrorSyncer) enqueue(event SyncEvent) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if ms.closed {
		return
	}

	select {
	case ms.eventChannel <- event:
	default:
		log.Printf("mirror channel full, dropping %s for %s/%s", event.Op, event.Collection, event.DocID)
	}
}

func (ms *MirrorSyncer) processEvents() {
	defer ms.wg.Done()

	for event := range ms.eventChannel {
		ms.apply(event)
	}
}

func (ms *MirrorSyncer) apply(event SyncEvent) {
	var err error
	switch event.Op {
	case OpUpsert:
		err = ms.store.Upsert(context.Background(), event.Collection, event.DocID, event.Doc)
	case OpDelete:
		err = ms.store.Delete(context.Background(), event.Collection, event.DocID)
	}
	if err != nil {
		log.Printf("mirror %s %s/%s failed: %v", event.Op, event.Collection, event.DocID, err)
	}
}

// Shutdown drains queued events and stops the workers
func (ms *MirrorSyncer) Shutdown() {
	ms.mu.Lock()
	if ms.closed {
		ms.mu.Unlock()
		return
	}
	ms.closed = true
	close(ms.eventChannel)
	ms.mu.Unlock()

	ms.wg.Wait()
	log.Println("MirrorSyncer shutdown complete")
}
