// internal/store/store_test.go
package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/utils"
)

const testStateKey = "test-state"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := Open(NewMemoryPersistence(), testStateKey)
	<-s.Ready()
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAssignsIDWhenMissing(t *testing.T) {
	s := newTestStore(t)

	c := s.AddCustomer(models.Customer{Name: "Alice"})
	assert.NotEmpty(t, c.ID)

	got, ok := s.GetCustomer(c.ID)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
}

func TestAddKeepsProvidedID(t *testing.T) {
	s := newTestStore(t)

	c := s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	assert.Equal(t, "c-1", c.ID)
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice", Phone: "111"})

	updated, ok := s.UpdateCustomer("c-1", utils.Fields{"phone": "222"})
	require.True(t, ok)
	assert.Equal(t, "222", updated.Phone)
	assert.Equal(t, "Alice", updated.Name, "untouched fields survive a partial update")
}

func TestUpdateNeverPatchesID(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})

	updated, ok := s.UpdateCustomer("c-1", utils.Fields{"id": "hijacked", "name": "Bob"})
	require.True(t, ok)
	assert.Equal(t, "c-1", updated.ID)
	assert.Equal(t, "Bob", updated.Name)

	_, found := s.GetCustomer("hijacked")
	assert.False(t, found)
}

func TestUpdateAbsentIDIsNoOp(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.UpdateCustomer("missing", utils.Fields{"name": "Ghost"})
	assert.False(t, ok)
}

func TestRemoveDeletesRecord(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})

	s.RemoveCustomer("c-1")
	_, ok := s.GetCustomer("c-1")
	assert.False(t, ok)

	// Removing again is harmless.
	s.RemoveCustomer("c-1")
}

func TestMutationsEmitEvents(t *testing.T) {
	s := newTestStore(t)

	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	s.UpdateCustomer("c-1", utils.Fields{"name": "Bob"})
	s.RemoveCustomer("c-1")

	expectEvent := func(op Op) Mutation {
		select {
		case m := <-s.Events():
			assert.Equal(t, op, m.Op)
			assert.Equal(t, models.CollectionCustomers, m.Collection)
			assert.Equal(t, "c-1", m.ID)
			return m
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", op)
			return Mutation{}
		}
	}

	created := expectEvent(OpCreate)
	assert.Equal(t, "Alice", created.Fields["name"])

	updated := expectEvent(OpUpdate)
	assert.Equal(t, "Bob", updated.Fields["name"])

	deleted := expectEvent(OpDelete)
	assert.Nil(t, deleted.Fields)
}

func TestHydrationRoundTrip(t *testing.T) {
	p := NewMemoryPersistence()

	s1 := Open(p, testStateKey)
	<-s1.Ready()
	s1.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	s1.AddProduct(models.Product{ID: "p-1", Name: "Shirt", BasePrice: 100})
	_, err := s1.UpdateSettings(utils.Fields{"name": "My Shop"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2 := Open(p, testStateKey)
	<-s2.Ready()
	defer s2.Close()

	got, ok := s2.GetCustomer("c-1")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)

	product, ok := s2.GetProduct("p-1")
	require.True(t, ok)
	assert.Equal(t, 100.0, product.BasePrice)

	assert.Equal(t, "My Shop", s2.Settings().Name)
}

func TestHydrationStartsEmptyOnUnreadableBlob(t *testing.T) {
	p := NewMemoryPersistence()
	require.NoError(t, p.Save(testStateKey, []byte("not json")))

	s := Open(p, testStateKey)
	<-s.Ready()
	defer s.Close()

	assert.Empty(t, s.Customers())
	assert.Equal(t, models.DefaultShopSettings(), s.Settings())
}

func TestUpdateSettingsMerges(t *testing.T) {
	s := newTestStore(t)

	updated, err := s.UpdateSettings(utils.Fields{"name": "Corner Shop"})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", updated.Name)
	assert.Equal(t, "USD", updated.CurrencyCode, "defaults survive a partial update")
}

func TestReplaceCollectionInstallsDocs(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})

	err := s.ReplaceCollection(models.CollectionCustomers, []utils.Fields{
		{"id": "c-2", "name": "Bob", "phone": "", "address": ""},
	})
	require.NoError(t, err)

	_, ok := s.GetCustomer("c-1")
	assert.False(t, ok, "replace is wholesale, not a merge")
	got, ok := s.GetCustomer("c-2")
	require.True(t, ok)
	assert.Equal(t, "Bob", got.Name)
}

func TestReplaceCollectionRejectsUnknownName(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.ReplaceCollection("sessions", nil))
	_, err := s.Snapshot("sessions")
	assert.Error(t, err)
}

func TestImportOverlaysRecords(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	s.AddCustomer(models.Customer{ID: "c-2", Name: "Bob"})

	payload := map[string]json.RawMessage{
		models.CollectionCustomers: json.RawMessage(
			`[{"id":"c-2","name":"Bobby"},{"id":"c-3","name":"Cara"}]`),
		models.SettingsCollection: json.RawMessage(`{"name":"Imported Shop"}`),
		"unknownKey":              json.RawMessage(`[1,2,3]`),
	}
	require.NoError(t, s.Import(payload))

	got, _ := s.GetCustomer("c-1")
	assert.Equal(t, "Alice", got.Name, "records absent from the payload are untouched")

	got, _ = s.GetCustomer("c-2")
	assert.Equal(t, "Bobby", got.Name, "known ids overwrite in place")

	got, ok := s.GetCustomer("c-3")
	require.True(t, ok, "new ids are appended")
	assert.Equal(t, "Cara", got.Name)

	assert.Equal(t, "Imported Shop", s.Settings().Name)
	assert.Equal(t, "USD", s.Settings().CurrencyCode, "settings import is a merge")
}

func TestExportMirrorsState(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	s.AddCategory(models.Category{ID: "cat-1", Name: "Shirts"})

	out := s.Export()
	require.Len(t, out.Customers, 1)
	assert.Equal(t, "Alice", out.Customers[0].Name)
	require.Len(t, out.Categories, 1)

	// Mutating the export must not reach the store.
	out.Customers[0].Name = "Hacked"
	got, _ := s.GetCustomer("c-1")
	assert.Equal(t, "Alice", got.Name)
}

func TestSnapshotProducesDocuments(t *testing.T) {
	s := newTestStore(t)
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice", Phone: "111"})

	docs, err := s.Snapshot(models.CollectionCustomers)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "c-1", docs[0]["id"])
	assert.Equal(t, "Alice", docs[0]["name"])
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	p := NewMemoryPersistence()
	s := Open(p, testStateKey)
	<-s.Ready()

	p.FailNext(assert.AnError)
	assert.Error(t, s.Flush())

	// The store keeps working and a later flush lands the state.
	s.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	got, ok := s.GetCustomer("c-1")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
	require.NoError(t, s.Close())

	s2 := Open(p, testStateKey)
	<-s2.Ready()
	defer s2.Close()
	_, ok = s2.GetCustomer("c-1")
	assert.True(t, ok)
}
