package citation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// ErrEntityNotFound is returned by EntityLookup implementations when the
// referenced entity no longer exists.
var ErrEntityNotFound = errors.New("referenced entity not found")

// Entity is the resolved target behind a clicked reference
type Entity struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// EntityLookup resolves (kind, id) pairs. It is used only for click
// resolution, never during context assembly.
type EntityLookup interface {
	Lookup(ctx context.Context, kind Kind, id string) (*Entity, error)
}

// Notifier delivers soft, user-visible notifications for one session
type Notifier interface {
	Notify(sessionID string, message string)
}

// Resolver answers reference clicks. A failed lookup is never fatal: the user
// gets a per-click notification and nothing else changes.
type Resolver struct {
	lookup   EntityLookup
	notifier Notifier
	cache    *cache.Cache
}

func NewResolver(lookup EntityLookup, notifier Notifier) *Resolver {
	// Entities are immutable for the life of a chat session, so short-lived
	// caching keeps repeated clicks off the database.
	return &Resolver{
		lookup:   lookup,
		notifier: notifier,
		cache:    cache.New(15*time.Minute, 5*time.Minute),
	}
}

// Resolve returns the entity behind the reference, or ok=false when it could
// not be found. Not-found is reported to the user via the notifier only.
func (r *Resolver) Resolve(ctx context.Context, sessionID string, kind Kind, id string) (*Entity, bool) {
	key := string(kind) + ":" + id
	if x, found := r.cache.Get(key); found {
		return x.(*Entity), true
	}

	entity, err := r.lookup.Lookup(ctx, kind, id)
	if err != nil || entity == nil {
		if r.notifier != nil {
			r.notifier.Notify(sessionID, fmt.Sprintf("The referenced item %s could not be found.", key))
		}
		return nil, false
	}

	r.cache.Set(key, entity, cache.DefaultExpiration)
	return entity, true
}
