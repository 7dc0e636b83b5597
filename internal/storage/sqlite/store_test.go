package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	"github.com/sgb-io/back-of-the-neural-net/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "world.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testEvent(t *testing.T, minute int) event.Event {
	t.Helper()
	evt, err := event.Encode(event.KindKickOff, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), &event.KickOffPayload{
		MatchID: "m1", Minute: minute,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return evt
}

func TestAppendAssignsContiguousSequences(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Append(ctx, []event.Event{testEvent(t, 0), testEvent(t, 1)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first[0].Seq != 1 || first[1].Seq != 2 {
		t.Fatalf("expected sequences 1,2 got %d,%d", first[0].Seq, first[1].Seq)
	}

	second, err := store.Append(ctx, []event.Event{testEvent(t, 2)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if second[0].Seq != 3 {
		t.Fatalf("expected sequence 3, got %d", second[0].Seq)
	}

	last, err := store.LastSeq(ctx)
	if err != nil {
		t.Fatalf("last seq: %v", err)
	}
	if last != 3 {
		t.Fatalf("expected last seq 3, got %d", last)
	}
}

func TestAppendRollsBackWholeBatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bad := []event.Event{testEvent(t, 0), {Kind: "", PayloadJSON: []byte("{}")}}
	if _, err := store.Append(ctx, bad); err == nil {
		t.Fatal("expected append to reject kindless event")
	}

	last, err := store.LastSeq(ctx)
	if err != nil {
		t.Fatalf("last seq: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected empty log after rollback, got seq %d", last)
	}
}

func TestReadFromOrdersAndFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var batch []event.Event
	for i := 0; i < 5; i++ {
		batch = append(batch, testEvent(t, i))
	}
	if _, err := store.Append(ctx, batch); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := store.ReadFrom(ctx, 2, 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events after seq 2, got %d", len(events))
	}
	for i, evt := range events {
		if evt.Seq != uint64(3+i) {
			t.Fatalf("expected seq %d, got %d", 3+i, evt.Seq)
		}
	}
}

func TestTimestampsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	in := testEvent(t, 0)
	appended, err := store.Append(ctx, []event.Event{in})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.ReadFrom(ctx, 0, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !out[0].Timestamp.Equal(appended[0].Timestamp) {
		t.Fatalf("timestamp mutated: %v != %v", out[0].Timestamp, appended[0].Timestamp)
	}
}

func TestSnapshotRoundTripAndPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, _, err := store.LoadSnapshot(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := store.SaveSnapshot(ctx, 10, []byte("ten")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveSnapshot(ctx, 20, []byte("twenty")); err != nil {
		t.Fatalf("save: %v", err)
	}

	seq, blob, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if seq != 20 || string(blob) != "twenty" {
		t.Fatalf("expected latest snapshot, got seq=%d blob=%q", seq, blob)
	}
}

func TestResetClearsEverything(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, []event.Event{testEvent(t, 0)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.SaveSnapshot(ctx, 1, []byte("snap")); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	last, err := store.LastSeq(ctx)
	if err != nil {
		t.Fatalf("last seq: %v", err)
	}
	if last != 0 {
		t.Fatalf("expected empty log after reset, got %d", last)
	}
	if _, _, err := store.LoadSnapshot(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected snapshots cleared, got %v", err)
	}

	// Sequences restart at 1 after a reset.
	appended, err := store.Append(ctx, []event.Event{testEvent(t, 0)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if appended[0].Seq != 1 {
		t.Fatalf("expected sequence restart at 1, got %d", appended[0].Seq)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Append(ctx, []event.Event{testEvent(t, 0)}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	last, err := reopened.LastSeq(ctx)
	if err != nil {
		t.Fatalf("last seq: %v", err)
	}
	if last != 1 {
		t.Fatalf("expected persisted event, got last seq %d", last)
	}
}
