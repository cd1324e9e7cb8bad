// internal/services/propagator_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/remote"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

func startPropagator(t *testing.T, st *store.Store, rs remote.Store, sess *session.Session) {
	t.Helper()
	p := NewPropagator(st, rs, sess)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.Run(ctx)
}

func eventuallyRemote(t *testing.T, ms *remote.MemoryStore, docPath string, check func(fields utils.Fields, found bool) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		fields, found, err := ms.Get(context.Background(), docPath)
		if err != nil {
			return false
		}
		return check(fields, found)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPropagatorMirrorsMutations(t *testing.T) {
	st := newTestStore(t)
	ms := remote.NewMemoryStore()
	sess := session.New()
	sess.SetPrincipal(testPrincipal)
	startPropagator(t, st, ms, sess)

	path := remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1")

	st.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	eventuallyRemote(t, ms, path, func(fields utils.Fields, found bool) bool {
		return found && fields["name"] == "Alice"
	})

	st.UpdateCustomer("c-1", utils.Fields{"name": "Bob"})
	eventuallyRemote(t, ms, path, func(fields utils.Fields, found bool) bool {
		return found && fields["name"] == "Bob"
	})

	st.RemoveCustomer("c-1")
	eventuallyRemote(t, ms, path, func(fields utils.Fields, found bool) bool {
		return !found
	})
}

func TestPropagatorCreateReplacesRemoteDocument(t *testing.T) {
	st := newTestStore(t)
	ms := remote.NewMemoryStore()
	sess := session.New()
	sess.SetPrincipal(testPrincipal)

	path := remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1")
	require.NoError(t, ms.Set(context.Background(), path,
		utils.Fields{"id": "c-1", "name": "Old", "stale": "leftover"}, false))

	startPropagator(t, st, ms, sess)
	st.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})

	eventuallyRemote(t, ms, path, func(fields utils.Fields, found bool) bool {
		if !found || fields["name"] != "Alice" {
			return false
		}
		_, stale := fields["stale"]
		return !stale
	})
}

func TestPropagatorUpdateMergesIntoRemoteDocument(t *testing.T) {
	st := newTestStore(t)
	ms := remote.NewMemoryStore()
	sess := session.New()
	sess.SetPrincipal(testPrincipal)

	st.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})
	<-st.Events() // consume the create so only the update reaches the remote

	path := remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1")
	require.NoError(t, ms.Set(context.Background(), path,
		utils.Fields{"id": "c-1", "name": "Alice", "extra": "keep"}, false))

	startPropagator(t, st, ms, sess)
	st.UpdateCustomer("c-1", utils.Fields{"name": "Bob"})

	eventuallyRemote(t, ms, path, func(fields utils.Fields, found bool) bool {
		return found && fields["name"] == "Bob" && fields["extra"] == "keep"
	})
}

func TestPropagatorSkipsWhileLoggedOut(t *testing.T) {
	st := newTestStore(t)
	ms := remote.NewMemoryStore()
	sess := session.New()
	p := NewPropagator(st, ms, sess)

	mutation := store.Mutation{
		Op:         store.OpCreate,
		Collection: models.CollectionCustomers,
		ID:         "c-1",
		Fields:     utils.Fields{"id": "c-1", "name": "Alice"},
	}
	path := remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1")

	// Without a principal the mutation is dropped outright: there is no
	// namespace to write into.
	p.apply(context.Background(), mutation)
	_, found, err := ms.Get(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, found)

	// The same mutation goes through once a principal is present.
	sess.SetPrincipal(testPrincipal)
	p.apply(context.Background(), mutation)
	fields, found, err := ms.Get(context.Background(), path)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice", fields["name"])
}

func TestPropagatorDropsRemoteFailures(t *testing.T) {
	st := newTestStore(t)
	ms := remote.NewMemoryStore()
	sess := session.New()
	sess.SetPrincipal(testPrincipal)
	startPropagator(t, st, ms, sess)

	customersPath := remote.CollectionPath(testPrincipal, models.CollectionCustomers)
	ms.FailWith(customersPath, errors.New("offline"))

	st.AddCustomer(models.Customer{ID: "c-1", Name: "Alice"})

	// A later mutation on a healthy collection still goes through, proving
	// the failure was swallowed rather than wedging the consumer.
	st.AddCategory(models.Category{ID: "cat-1", Name: "Shirts"})
	eventuallyRemote(t, ms,
		remote.DocPath(testPrincipal, models.CollectionCategories, "cat-1"),
		func(fields utils.Fields, found bool) bool { return found })

	// The local mutation was not rolled back; the remote write was dropped.
	got, ok := st.GetCustomer("c-1")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)

	_, found, err := ms.Get(context.Background(),
		remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1"))
	require.NoError(t, err)
	assert.False(t, found)

	// Once the remote recovers, the next mutation is mirrored again.
	ms.FailWith(customersPath, nil)
	st.UpdateCustomer("c-1", utils.Fields{"name": "Bob"})
	eventuallyRemote(t, ms,
		remote.DocPath(testPrincipal, models.CollectionCustomers, "c-1"),
		func(fields utils.Fields, found bool) bool {
			return found && fields["name"] == "Bob"
		})
}
