// internal/services/sync_service.go
package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/remote"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSyncInProgress   = errors.New("a sync pass is already running")
)

type SyncStatus string

const (
	SyncSucceeded       SyncStatus = "succeeded"
	SyncPartiallyFailed SyncStatus = "partially_failed"
	SyncFailed          SyncStatus = "failed"
)

// CollectionSync is the outcome of reconciling one collection. A failed
// collection leaves its local data untouched and never blocks the others.
type CollectionSync struct {
	Collection string `json:"collection"`
	Pushed     int    `json:"pushed"`
	Pulled     int    `json:"pulled"`
	Error      string `json:"error,omitempty"`
}

type SyncResult struct {
	Status      SyncStatus       `json:"status"`
	StartedAt   time.Time        `json:"startedAt"`
	FinishedAt  time.Time        `json:"finishedAt"`
	Collections []CollectionSync `json:"collections"`
}

// SyncService reconciles every local collection against its remote
// counterpart with a union + local-wins merge, and the settings singleton
// with the inverse remote-wins merge.
//
// Known, inherited limitations: local-wins has no timestamp backing, so a
// rarely-syncing device overwrites newer edits from another device; and
// local deletions are not tombstoned, so a record deleted while offline
// reappears once the next pass pulls it back from the remote union.
type SyncService struct {
	store   *store.Store
	remote  remote.Store
	session *session.Session

	mu      sync.Mutex
	running bool
	pending bool
	last    *SyncResult
}

func NewSyncService(st *store.Store, rs remote.Store, sess *session.Session) *SyncService {
	return &SyncService{store: st, remote: rs, session: sess}
}

// Trigger requests a sync pass without blocking. At most one pass runs at a
// time; a trigger that lands mid-pass is coalesced into a single re-run
// after the current one finishes, so a connectivity-restored event that
// fires during a pass is never lost.
func (s *SyncService) Trigger() {
	go func() {
		if _, err := s.Run(context.Background()); err != nil &&
			!errors.Is(err, ErrSyncInProgress) && !errors.Is(err, ErrNotAuthenticated) {
			logrus.WithError(err).Error("Sync pass failed")
		}
	}()
}

// Run executes a full sync pass synchronously, honoring single-flight: if a
// pass is already in flight the request is folded into a pending re-run and
// ErrSyncInProgress is returned to this caller.
func (s *SyncService) Run(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	if s.running {
		s.pending = true
		s.mu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.running = true
	s.mu.Unlock()

	for {
		result, err := s.runPass(ctx)

		s.mu.Lock()
		if result != nil {
			s.last = result
		}
		if s.pending {
			s.pending = false
			s.mu.Unlock()
			continue
		}
		s.running = false
		s.mu.Unlock()
		return result, err
	}
}

// LastResult returns the outcome of the most recent pass, if any.
func (s *SyncService) LastResult() *SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	cp.Collections = append([]CollectionSync(nil), s.last.Collections...)
	return &cp
}

func (s *SyncService) runPass(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{StartedAt: time.Now()}

	principal, ok := s.session.Principal()
	if !ok {
		result.Status = SyncFailed
		result.FinishedAt = time.Now()
		return result, ErrNotAuthenticated
	}

	// Collections are independent namespaces: reconcile them in parallel
	// and let each fail on its own.
	outcomes := make([]CollectionSync, len(models.Collections)+1)
	var wg sync.WaitGroup
	for i, name := range models.Collections {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i] = s.syncCollection(ctx, principal, name)
		}(i, name)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[len(outcomes)-1] = s.syncSettings(ctx, principal)
	}()
	wg.Wait()

	result.Collections = outcomes
	result.Status = SyncSucceeded
	for _, outcome := range outcomes {
		if outcome.Error != "" {
			result.Status = SyncPartiallyFailed
			break
		}
	}
	result.FinishedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"status":   result.Status,
		"duration": result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}).Info("Sync pass finished")

	return result, nil
}

// syncCollection reconciles one collection: union by id, local version wins
// on any structural difference, remote-only records are pulled in. Nothing
// is ever deleted here.
func (s *SyncService) syncCollection(ctx context.Context, principal, name string) CollectionSync {
	res := CollectionSync{Collection: name}
	fail := func(err error) CollectionSync {
		res.Error = err.Error()
		logrus.WithError(err).WithField("collection", name).Warn("Collection sync failed")
		return res
	}

	local, err := s.store.Snapshot(name)
	if err != nil {
		return fail(err)
	}

	if err := s.checkSession(principal); err != nil {
		return fail(err)
	}

	path := remote.CollectionPath(principal, name)
	remoteDocs, err := s.remote.ListAll(ctx, path)
	if err != nil {
		return fail(err)
	}

	remoteByID := make(map[string]utils.Fields, len(remoteDocs))
	for _, doc := range remoteDocs {
		remoteByID[doc.ID] = doc.Fields
	}

	var staged []remote.Document
	merged := make([]utils.Fields, 0, len(local)+len(remoteDocs))
	seen := make(map[string]bool, len(local))

	for _, doc := range local {
		merged = append(merged, doc)

		id, _ := doc["id"].(string)
		if id == "" {
			continue
		}
		seen[id] = true

		remoteFields, exists := remoteByID[id]
		if !exists || !reflect.DeepEqual(doc, remoteFields) {
			// New locally, or both touched: local wins unconditionally.
			staged = append(staged, remote.Document{ID: id, Fields: doc})
		}
	}

	for _, doc := range remoteDocs {
		if seen[doc.ID] {
			continue
		}
		fields := doc.Fields
		if fields == nil {
			fields = utils.Fields{}
		}
		if _, ok := fields["id"]; !ok {
			fields["id"] = doc.ID
		}
		merged = append(merged, fields)
		res.Pulled++
	}

	if len(staged) > 0 {
		if err := s.checkSession(principal); err != nil {
			return fail(err)
		}
		if err := s.remote.BatchUpsert(ctx, path, staged); err != nil {
			// Local state stays exactly as it was before the pass.
			return fail(err)
		}
	}

	if err := s.store.ReplaceCollection(name, merged); err != nil {
		return fail(err)
	}

	res.Pushed = len(staged)
	return res
}

// syncSettings applies the settings singleton's inverted policy: if the
// remote document does not exist the local one bootstraps it; if it does,
// remote fields win field-by-field. This asymmetry with record collections
// is intentional and must not be normalized away.
func (s *SyncService) syncSettings(ctx context.Context, principal string) CollectionSync {
	res := CollectionSync{Collection: models.SettingsCollection}
	fail := func(err error) CollectionSync {
		res.Error = err.Error()
		logrus.WithError(err).Warn("Settings sync failed")
		return res
	}

	local, err := s.store.SettingsDoc()
	if err != nil {
		return fail(err)
	}

	if err := s.checkSession(principal); err != nil {
		return fail(err)
	}

	path := remote.DocPath(principal, models.SettingsCollection, models.SettingsDocID)
	remoteFields, found, err := s.remote.Get(ctx, path)
	if err != nil {
		return fail(err)
	}

	if !found {
		if err := s.remote.Set(ctx, path, local, false); err != nil {
			return fail(err)
		}
		res.Pushed = 1
		return res
	}

	merged := make(utils.Fields, len(local)+len(remoteFields))
	for k, v := range local {
		merged[k] = v
	}
	for k, v := range remoteFields {
		merged[k] = v
	}
	if err := s.store.ReplaceSettings(merged); err != nil {
		return fail(err)
	}
	res.Pulled = 1
	return res
}

// checkSession re-verifies the principal before a remote call so that a
// logout mid-pass degrades into per-collection no-ops.
func (s *SyncService) checkSession(principal string) error {
	current, ok := s.session.Principal()
	if !ok || current != principal {
		return ErrNotAuthenticated
	}
	return nil
}
