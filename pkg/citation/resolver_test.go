package citation

import (
	"context"
	"testing"
)

type fakeLookup struct {
	entities map[string]*Entity
	calls    int
}

func (f *fakeLookup) Lookup(ctx context.Context, kind Kind, id string) (*Entity, error) {
	f.calls++
	if e, ok := f.entities[string(kind)+":"+id]; ok {
		return e, nil
	}
	return nil, ErrEntityNotFound
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(sessionID, message string) {
	f.messages = append(f.messages, message)
}

func TestResolverHit(t *testing.T) {
	lookup := &fakeLookup{entities: map[string]*Entity{
		"source:abc": {Kind: KindSource, ID: "abc", Title: "Paper"},
	}}
	notifier := &fakeNotifier{}
	r := NewResolver(lookup, notifier)

	entity, ok := r.Resolve(context.Background(), "s1", KindSource, "abc")
	if !ok {
		t.Fatal("expected hit")
	}
	if entity.Title != "Paper" {
		t.Errorf("title = %q", entity.Title)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("unexpected notifications: %v", notifier.messages)
	}
}

func TestResolverMissNotifiesOnce(t *testing.T) {
	lookup := &fakeLookup{}
	notifier := &fakeNotifier{}
	r := NewResolver(lookup, notifier)

	if _, ok := r.Resolve(context.Background(), "s1", KindNote, "gone"); ok {
		t.Fatal("expected miss")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.messages))
	}
}

func TestResolverCachesHits(t *testing.T) {
	lookup := &fakeLookup{entities: map[string]*Entity{
		"source:abc": {Kind: KindSource, ID: "abc", Title: "Paper"},
	}}
	r := NewResolver(lookup, &fakeNotifier{})

	r.Resolve(context.Background(), "s1", KindSource, "abc")
	r.Resolve(context.Background(), "s1", KindSource, "abc")
	if lookup.calls != 1 {
		t.Errorf("lookup called %d times, want 1", lookup.calls)
	}
}
