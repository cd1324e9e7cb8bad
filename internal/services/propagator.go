// internal/services/propagator.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"shoplite-agent/internal/remote"
	"shoplite-agent/internal/session"
	"shoplite-agent/internal/store"
)

// Propagator is the fast path: it consumes committed store mutations and
// mirrors each one to the remote store best-effort. Failures are logged and
// dropped; the full sync pass catches whatever this path missed, including
// everything that happens while logged out.
type Propagator struct {
	store   *store.Store
	remote  remote.Store
	session *session.Session
}

func NewPropagator(st *store.Store, rs remote.Store, sess *session.Session) *Propagator {
	return &Propagator{store: st, remote: rs, session: sess}
}

// Run consumes mutation events until the context is canceled.
func (p *Propagator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-p.store.Events():
			if !ok {
				return
			}
			p.apply(ctx, m)
		}
	}
}

func (p *Propagator) apply(ctx context.Context, m store.Mutation) {
	principal, ok := p.session.Principal()
	if !ok {
		// Logged out (or never logged in): the next full pass after login
		// reconciles whatever accumulated.
		return
	}

	path := remote.DocPath(principal, m.Collection, m.ID)

	var err error
	switch m.Op {
	case store.OpCreate:
		err = p.remote.Set(ctx, path, m.Fields, false)
	case store.OpUpdate:
		err = p.remote.Set(ctx, path, m.Fields, true)
	case store.OpDelete:
		err = p.remote.Delete(ctx, path)
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection": m.Collection,
			"id":         m.ID,
			"op":         m.Op,
		}).Warn("Fast-path remote write failed")
	}
}
