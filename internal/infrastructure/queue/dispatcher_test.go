package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingNotifier struct {
	mu      sync.Mutex
	entries []string
	done    chan struct{}
	want    int
}

func newRecordingNotifier(want int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}), want: want}
}

func (r *recordingNotifier) record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) == r.want {
		close(r.done)
	}
}

func (r *recordingNotifier) SendRegistrationNotice(_ context.Context, username, email string) error {
	r.record("registration:" + email + ":" + username)
	return nil
}

func (r *recordingNotifier) SendPasswordResetNotice(_ context.Context, email string) error {
	r.record("reset:" + email)
	return nil
}

func (r *recordingNotifier) SendStartupNotice(_ context.Context) error {
	r.record("startup")
	return nil
}

func (r *recordingNotifier) wait(t *testing.T) []string {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for deliveries, got %d of %d", len(r.entries), r.want)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

func TestDispatcher_DeliversAllKinds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := newRecordingNotifier(3)
	d := NewDispatcher(2, sink, zerolog.Nop())
	d.Start(ctx)

	if err := d.SendRegistrationNotice(ctx, "alice", "alice@example.com"); err != nil {
		t.Fatalf("enqueue registration: %v", err)
	}
	if err := d.SendPasswordResetNotice(ctx, "bob@example.com"); err != nil {
		t.Fatalf("enqueue reset: %v", err)
	}
	if err := d.SendStartupNotice(ctx); err != nil {
		t.Fatalf("enqueue startup: %v", err)
	}

	got := sink.wait(t)

	seen := make(map[string]bool, len(got))
	for _, e := range got {
		seen[e] = true
	}
	for _, want := range []string{"registration:alice@example.com:alice", "reset:bob@example.com", "startup"} {
		if !seen[want] {
			t.Fatalf("missing delivery %q in %v", want, got)
		}
	}
}

// Notices for a single recipient land on one worker, so their order survives
// the pool.
func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const rounds = 20
	sink := newRecordingNotifier(rounds * 2)
	d := NewDispatcher(4, sink, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < rounds; i++ {
		_ = d.SendRegistrationNotice(ctx, "alice", "alice@example.com")
		_ = d.SendPasswordResetNotice(ctx, "alice@example.com")
	}

	got := sink.wait(t)
	if len(got) != rounds*2 {
		t.Fatalf("expected %d deliveries, got %d", rounds*2, len(got))
	}
	for i := 0; i < rounds; i++ {
		if got[2*i] != "registration:alice@example.com:alice" || got[2*i+1] != "reset:alice@example.com" {
			t.Fatalf("recipient ordering broken at round %d: %v", i, got[2*i:2*i+2])
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingNotifier(0), zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
