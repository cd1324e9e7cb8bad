// internal/remote/memory.go
package remote

import (
	"context"
	"sort"
	"sync"

	"shoplite-agent/internal/utils"
)

// MemoryStore is an in-process Store used in tests and as the development
// fallback when no cloud credentials are configured. Per-path errors can be
// injected to exercise partial-failure behavior.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]utils.Fields // collectionPath -> id -> fields
	errs map[string]error                   // collectionPath -> injected error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]utils.Fields),
		errs: make(map[string]error),
	}
}

// FailWith makes every operation on the given collection path return err.
// Pass nil to clear.
func (m *MemoryStore) FailWith(collectionPath string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, collectionPath)
		return
	}
	m.errs[collectionPath] = err
}

func (m *MemoryStore) ListAll(ctx context.Context, collectionPath string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[collectionPath]; err != nil {
		return nil, err
	}

	coll := m.data[collectionPath]
	docs := make([]Document, 0, len(coll))
	for id, fields := range coll {
		docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *MemoryStore) BatchUpsert(ctx context.Context, collectionPath string, docs []Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[collectionPath]; err != nil {
		return err
	}

	coll := m.data[collectionPath]
	if coll == nil {
		coll = make(map[string]utils.Fields)
		m.data[collectionPath] = coll
	}
	for _, doc := range docs {
		coll[doc.ID] = copyFields(doc.Fields)
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, docPath string) (utils.Fields, bool, error) {
	collectionPath, id := splitDocPath(docPath)

	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[collectionPath]; err != nil {
		return nil, false, err
	}

	fields, ok := m.data[collectionPath][id]
	if !ok {
		return nil, false, nil
	}
	return copyFields(fields), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, docPath string, fields utils.Fields, merge bool) error {
	collectionPath, id := splitDocPath(docPath)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[collectionPath]; err != nil {
		return err
	}

	coll := m.data[collectionPath]
	if coll == nil {
		coll = make(map[string]utils.Fields)
		m.data[collectionPath] = coll
	}

	if merge {
		if existing, ok := coll[id]; ok {
			merged := copyFields(existing)
			for k, v := range fields {
				merged[k] = utils.Sanitize(v)
			}
			coll[id] = merged
			return nil
		}
	}
	coll[id] = copyFields(fields)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, docPath string) error {
	collectionPath, id := splitDocPath(docPath)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[collectionPath]; err != nil {
		return err
	}

	delete(m.data[collectionPath], id)
	return nil
}

func copyFields(fields utils.Fields) utils.Fields {
	if fields == nil {
		return utils.Fields{}
	}
	// Sanitize is a deep copy; memory documents must not alias callers.
	return utils.Sanitize(fields).(utils.Fields)
}
