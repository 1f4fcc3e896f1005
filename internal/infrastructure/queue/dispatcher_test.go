package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/traymate/backend/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *stubAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func TestAuditDispatcher_PersistsInOrderPerActor(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(3, 64, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	actors := []string{"a@traymate.com", "b@traymate.com", "c@traymate.com"}
	const perActor = 20
	for i := 0; i < perActor; i++ {
		for _, actor := range actors {
			d.Record(domain.AuditEvent{Action: domain.AuditLoginFailed, Actor: actor, Target: fmt.Sprint(i)})
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < perActor*len(actors) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	events := repo.snapshot()
	if len(events) != perActor*len(actors) {
		t.Fatalf("expected %d events, got %d", perActor*len(actors), len(events))
	}

	next := map[string]int{}
	for _, e := range events {
		if e.Target != fmt.Sprint(next[e.Actor]) {
			t.Fatalf("actor %s: expected target %d, got %s", e.Actor, next[e.Actor], e.Target)
		}
		next[e.Actor]++
	}
}

func TestAuditDispatcher_DropsWhenQueueFull(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(1, 1, repo, zerolog.Nop())

	// Not started: the single slot fills and the second event is dropped.
	d.Record(domain.AuditEvent{Action: domain.AuditLoginFailed, Actor: "x"})
	d.Record(domain.AuditEvent{Action: domain.AuditLoginFailed, Actor: "x"})

	if got := len(d.workers[0]); got != 1 {
		t.Fatalf("expected 1 queued event, got %d", got)
	}
}

func TestAuditDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewAuditDispatcher(1, 16, repo, zerolog.Nop())
	for i := 0; i < 5; i++ {
		d.Record(domain.AuditEvent{Action: domain.AuditUserDeleted, Actor: "admin"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(repo.snapshot()); got != 5 {
		t.Fatalf("expected queued events to be drained, got %d", got)
	}
}

func TestAuditDispatcher_ShardIndexStable(t *testing.T) {
	d := NewAuditDispatcher(8, 1, &stubAuditRepo{}, zerolog.Nop())
	first := d.shardIndex("admin@traymate.com")
	for i := 0; i < 10; i++ {
		if d.shardIndex("admin@traymate.com") != first {
			t.Fatalf("shard index changed between calls")
		}
	}
}
