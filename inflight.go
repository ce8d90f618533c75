package storefront

import (
	"context"
	"sync"

	"github.com/goliatone/hashid/pkg/hashid"
)

// InflightGroup enforces at most one in-flight request per action key. A
// new request for the same key cancels the previous one, so only the
// latest request's completion can mutate visible state. This mirrors
// resubscribe-style cancellation: the stale request never races the fresh
// one.
type InflightGroup struct {
	mu     sync.Mutex
	active map[string]*inflightEntry
	Logger Logger
}

type inflightEntry struct {
	cancel context.CancelFunc
}

type InflightOption func(*InflightGroup)

func WithInflightLogger(logger Logger) InflightOption {
	return func(g *InflightGroup) {
		if logger != nil {
			g.Logger = logger
		}
	}
}

func NewInflightGroup(opts ...InflightOption) *InflightGroup {
	g := &InflightGroup{
		active: map[string]*inflightEntry{},
		Logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// ActionKey derives a stable key for an action on behalf of a subject.
func ActionKey(action, subject string) string {
	if id, err := hashid.NewUUID(action + ":" + subject); err == nil {
		return id.String()
	}
	return action + ":" + subject
}

// Begin registers a new in-flight request for key, cancelling any previous
// one. The returned done func releases the slot; a stale done never evicts
// a newer holder.
func (g *InflightGroup) Begin(ctx context.Context, key string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	entry := &inflightEntry{cancel: cancel}

	g.mu.Lock()
	if prev, ok := g.active[key]; ok {
		g.Logger.Debug("superseding in-flight request: %s", key)
		prev.cancel()
	}
	g.active[key] = entry
	g.mu.Unlock()

	done := func() {
		cancel()
		g.mu.Lock()
		if current, ok := g.active[key]; ok && current == entry {
			delete(g.active, key)
		}
		g.mu.Unlock()
	}

	return ctx, done
}

// Do runs fn under the supersession contract for key. When a newer request
// cancels this one, the result is ErrRequestSuperseded regardless of what
// fn returned.
func (g *InflightGroup) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	ctx, done := g.Begin(ctx, key)
	defer done()

	err := fn(ctx)
	if ctx.Err() == context.Canceled {
		return ErrRequestSuperseded.WithMetadata(map[string]any{
			"key": key,
		})
	}
	return err
}

// Pending reports how many requests currently hold a slot.
func (g *InflightGroup) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}
