// internal/store/store.go
package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/utils"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation is emitted after every committed local mutation. The fast-path
// propagator consumes these to keep the remote store reasonably fresh
// between full sync passes.
type Mutation struct {
	Op         Op
	Collection string
	ID         string
	// Fields is the sanitized document for create/update, nil for delete.
	Fields utils.Fields
}

// State is the full persisted application state, serialized wholesale into
// one blob and rehydrated on launch.
type State struct {
	Customers  []models.Customer   `json:"customers"`
	Products   []models.Product    `json:"products"`
	Invoices   []models.Invoice    `json:"invoices"`
	Categories []models.Category   `json:"categories"`
	Attributes []models.Attribute  `json:"attributes"`
	ShopInfo   models.ShopSettings `json:"shopInfo"`
}

// Store is the single source of truth for in-memory application state.
// Mutations are synchronous and immediately visible to readers; durable
// persistence of the blob happens on a background goroutine, coalesced so a
// burst of edits results in one write.
type Store struct {
	mu    sync.RWMutex
	state State

	persistence Persistence
	stateKey    string

	persistCh chan struct{}
	events    chan Mutation
	ready     chan struct{}
	quit      chan struct{}
	wg        sync.WaitGroup
}

// Open starts hydration from persistence and returns immediately. Callers
// that need hydrated state (e.g. a post-login sync trigger) must wait on
// Ready() first.
func Open(p Persistence, stateKey string) *Store {
	s := &Store{
		persistence: p,
		stateKey:    stateKey,
		persistCh:   make(chan struct{}, 1),
		events:      make(chan Mutation, 256),
		ready:       make(chan struct{}),
		quit:        make(chan struct{}),
	}

	s.wg.Add(1)
	go s.persister()
	go s.hydrate()

	return s
}

func (s *Store) hydrate() {
	defer close(s.ready)

	state := State{ShopInfo: models.DefaultShopSettings()}

	blob, found, err := s.persistence.Load(s.stateKey)
	switch {
	case err != nil:
		logrus.WithError(err).Error("Failed to load persisted state, starting empty")
	case found:
		if err := json.Unmarshal(blob, &state); err != nil {
			logrus.WithError(err).Error("Persisted state is unreadable, starting empty")
			state = State{ShopInfo: models.DefaultShopSettings()}
		}
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Ready is closed once hydration from device storage has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Events delivers committed mutations to the fast-path propagator.
func (s *Store) Events() <-chan Mutation {
	return s.events
}

// Close stops the background persister after a final flush.
func (s *Store) Close() error {
	close(s.quit)
	s.wg.Wait()
	return s.Flush()
}

// Flush persists the current state synchronously.
func (s *Store) Flush() error {
	return s.persistNow()
}

func (s *Store) persister() {
	defer s.wg.Done()
	for {
		select {
		case <-s.persistCh:
			if err := s.persistNow(); err != nil {
				// In-memory state stays authoritative for the session.
				logrus.WithError(err).Error("Failed to persist state")
			}
		case <-s.quit:
			return
		}
	}
}

func (s *Store) persistNow() error {
	s.mu.RLock()
	blob, err := json.Marshal(s.state)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	return s.persistence.Save(s.stateKey, blob)
}

func (s *Store) schedulePersist() {
	select {
	case s.persistCh <- struct{}{}:
	default: // a persist is already pending, it will pick up this change
	}
}

// committed runs the post-mutation bookkeeping shared by every mutation:
// schedule a persist and emit the fast-path event.
func (s *Store) committed(op Op, collection, id string, rec interface{}) {
	s.schedulePersist()

	var fields utils.Fields
	if rec != nil {
		var err error
		fields, err = utils.ToDocument(rec)
		if err != nil {
			logrus.WithError(err).WithField("collection", collection).
				Warn("Failed to encode mutation for remote propagation")
			return
		}
	}

	select {
	case s.events <- Mutation{Op: op, Collection: collection, ID: id, Fields: fields}:
	default:
		logrus.WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Warn("Mutation event buffer full, dropping fast-path write")
	}
}

// Settings returns the shop settings singleton.
func (s *Store) Settings() models.ShopSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ShopInfo
}

// UpdateSettings shallow-merges the given fields into the settings
// singleton. Settings are never deleted, only merged.
func (s *Store) UpdateSettings(fields utils.Fields) (models.ShopSettings, error) {
	s.mu.Lock()
	var updated models.ShopSettings
	if err := patchRecord(s.state.ShopInfo, fields, &updated); err != nil {
		s.mu.Unlock()
		return models.ShopSettings{}, err
	}
	s.state.ShopInfo = updated
	s.mu.Unlock()

	s.committed(OpUpdate, models.SettingsCollection, models.SettingsDocID, updated)
	return updated, nil
}

// SettingsDoc returns the settings singleton in sanitized document form.
func (s *Store) SettingsDoc() (utils.Fields, error) {
	return utils.ToDocument(s.Settings())
}

// ReplaceSettings installs the settings produced by a sync pass. No
// fast-path event is emitted; sync results must not echo back out.
func (s *Store) ReplaceSettings(fields utils.Fields) error {
	var settings models.ShopSettings
	if err := utils.FromDocument(fields, &settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.ShopInfo = settings
	s.mu.Unlock()

	s.schedulePersist()
	return nil
}

// Snapshot returns a collection as sanitized remote documents, taken under
// one lock so a sync pass sees a coherent view. Mutations racing with the
// pass are caught by the fast path or the next pass.
func (s *Store) Snapshot(collection string) ([]utils.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch collection {
	case models.CollectionCustomers:
		return docsOf(s.state.Customers)
	case models.CollectionProducts:
		return docsOf(s.state.Products)
	case models.CollectionInvoices:
		return docsOf(s.state.Invoices)
	case models.CollectionCategories:
		return docsOf(s.state.Categories)
	case models.CollectionAttributes:
		return docsOf(s.state.Attributes)
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
}

// ReplaceCollection installs the merged record set produced by a successful
// sync pass. No fast-path events are emitted.
func (s *Store) ReplaceCollection(collection string, docs []utils.Fields) error {
	blob, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.schedulePersist()
	}()

	switch collection {
	case models.CollectionCustomers:
		return decodeInto(blob, &s.state.Customers, collection)
	case models.CollectionProducts:
		return decodeInto(blob, &s.state.Products, collection)
	case models.CollectionInvoices:
		return decodeInto(blob, &s.state.Invoices, collection)
	case models.CollectionCategories:
		return decodeInto(blob, &s.state.Categories, collection)
	case models.CollectionAttributes:
		return decodeInto(blob, &s.state.Attributes, collection)
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}
}

func decodeInto[T any](blob []byte, dst *[]T, collection string) error {
	var list []T
	if err := json.Unmarshal(blob, &list); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	*dst = list
	return nil
}

func docsOf[T any](list []T) ([]utils.Fields, error) {
	docs := make([]utils.Fields, 0, len(list))
	for _, rec := range list {
		doc, err := utils.ToDocument(rec)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// patchRecord shallow-merges partial fields over a record: the record is
// flattened to a document, the provided top-level fields overwrite, and the
// result is decoded back.
func patchRecord(rec interface{}, fields utils.Fields, out interface{}) error {
	doc, err := utils.ToDocument(rec)
	if err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	return utils.FromDocument(doc, out)
}
