// Package orchestrator owns the single write path into the world.
//
// Everything that changes state funnels through Advance: soft-state
// proposals, parallel match simulation, calendar movement and season
// rollover. The orchestrator appends events to the log first and mutates the
// in-memory world only by folding those same events, so the world is always
// the fold of the log.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/random"
	"github.com/sgb-io/back-of-the-neural-net/internal/schedule"
	"github.com/sgb-io/back-of-the-neural-net/internal/softstate"
	"github.com/sgb-io/back-of-the-neural-net/internal/storage"
	"github.com/sgb-io/back-of-the-neural-net/internal/worldgen"
)

// Config tunes the orchestrator.
type Config struct {
	// Seed overrides the world seed at genesis; zero draws a crypto seed.
	Seed int64
	// SoftStateTimeout bounds each collaborator call.
	SoftStateTimeout time.Duration
	// SnapshotInterval is the event count between world snapshots.
	SnapshotInterval uint64
	// StrictReplay makes unknown event kinds fatal during replay.
	StrictReplay bool
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		SoftStateTimeout: 30 * time.Second,
		SnapshotInterval: 1000,
		StrictReplay:     true,
	}
}

// Orchestrator drives the simulation.
type Orchestrator struct {
	store  storage.EventStore
	collab softstate.Collaborator
	cfg    Config
	tracer trace.Tracer

	// mu guards the world: the driver takes the write lock, queries read.
	mu    sync.RWMutex
	world *domain.World

	// advanceMu serializes Advance; there is exactly one driver.
	advanceMu sync.Mutex

	subMu       sync.Mutex
	subscribers map[int]chan event.Event
	nextSub     int

	lastSnapshot uint64
}

// New builds an orchestrator. The collaborator may be nil, in which case
// soft-state phases are skipped entirely.
func New(store storage.EventStore, collab softstate.Collaborator, cfg Config) *Orchestrator {
	if cfg.SoftStateTimeout <= 0 {
		cfg.SoftStateTimeout = 30 * time.Second
	}
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = 1000
	}
	return &Orchestrator{
		store:       store,
		collab:      collab,
		cfg:         cfg,
		tracer:      otel.Tracer("orchestrator"),
		subscribers: make(map[int]chan event.Event),
	}
}

// Bootstrap initializes the world: genesis on an empty log, replay otherwise.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	last, err := o.store.LastSeq(ctx)
	if err != nil {
		return fmt.Errorf("read log position: %w", err)
	}
	if last == 0 {
		return o.genesis(ctx)
	}
	return o.rebuild(ctx)
}

// genesis creates a fresh world and schedules the first season.
func (o *Orchestrator) genesis(ctx context.Context) error {
	seed := o.cfg.Seed
	if seed == 0 {
		var err error
		seed, err = random.NewSeed()
		if err != nil {
			return err
		}
	}

	world := worldgen.Build(seed)

	var batch []event.Event
	genesisEvt, err := event.Encode(event.KindWorldInitialized, world.CurrentDate, &event.WorldInitializedPayload{
		Season:      world.Season,
		Seed:        seed,
		LeagueIDs:   world.LeagueIDs(),
		GenesisDate: world.CurrentDate.Format("2006-01-02"),
	})
	if err != nil {
		return err
	}
	batch = append(batch, genesisEvt)

	for _, leagueID := range world.LeagueIDs() {
		league := world.Leagues[leagueID]
		payloads, err := schedule.GenerateSeason(world, league, world.Season, world.CurrentDate, seed)
		if err != nil {
			return err
		}
		for _, payload := range payloads {
			evt, err := event.Encode(event.KindMatchScheduled, world.CurrentDate, payload)
			if err != nil {
				return err
			}
			batch = append(batch, evt)
		}
	}

	appended, err := o.store.Append(ctx, batch)
	if err != nil {
		return fmt.Errorf("append genesis: %w", err)
	}

	// The genesis world already carries the metadata the first event sets;
	// folding the fixtures materializes the calendar.
	for _, evt := range appended[1:] {
		if err := world.Apply(evt); err != nil {
			return fmt.Errorf("apply genesis event %d: %w", evt.Seq, err)
		}
	}
	if err := world.CheckInvariants(); err != nil {
		return apperrors.Wrap(apperrors.CodeWorldInvariantViolated, "genesis world", err)
	}

	o.mu.Lock()
	o.world = world
	o.mu.Unlock()
	return nil
}

const replayPageSize = 500

// rebuild folds the persisted log into a fresh world, starting from the
// latest snapshot when one exists.
func (o *Orchestrator) rebuild(ctx context.Context) error {
	var (
		world    *domain.World
		afterSeq uint64
	)

	snapSeq, blob, err := o.store.LoadSnapshot(ctx)
	switch {
	case err == nil:
		world, err = domain.WorldFromSnapshot(blob)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeLogCorrupt, "decode snapshot", err)
		}
		afterSeq = snapSeq
	case errors.Is(err, storage.ErrNotFound):
		// Full replay from the first event.
	default:
		return fmt.Errorf("load snapshot: %w", err)
	}

	for {
		events, err := o.store.ReadFrom(ctx, afterSeq, replayPageSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			break
		}
		for _, evt := range events {
			afterSeq = evt.Seq

			if world == nil {
				if evt.Kind != event.KindWorldInitialized {
					return apperrors.New(apperrors.CodeLogCorrupt,
						fmt.Sprintf("log starts with %s at seq %d, expected %s",
							evt.Kind, evt.Seq, event.KindWorldInitialized))
				}
				payload, err := event.Decode(evt)
				if err != nil {
					return err
				}
				world = worldgen.Build(payload.(*event.WorldInitializedPayload).Seed)
			}

			if err := world.Apply(evt); err != nil {
				if errors.Is(err, event.ErrUnknownKind) && !o.cfg.StrictReplay {
					log.Printf("replay: skipping unknown event kind %q at seq %d", evt.Kind, evt.Seq)
					continue
				}
				return apperrors.Wrap(apperrors.CodeLogCorrupt,
					fmt.Sprintf("replay halted at seq %d", evt.Seq), err)
			}
		}
	}

	if world == nil {
		return apperrors.New(apperrors.CodeLogCorrupt, "log is non-empty but yielded no world")
	}
	if err := world.CheckInvariants(); err != nil {
		return apperrors.Wrap(apperrors.CodeWorldInvariantViolated, "rebuilt world", err)
	}

	o.mu.Lock()
	o.world = world
	o.mu.Unlock()
	o.lastSnapshot = snapSeq
	return nil
}

// Read runs fn against the world under a read lock. fn must not retain or
// mutate anything it sees.
func (o *Orchestrator) Read(fn func(*domain.World)) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	fn(o.world)
}

// WorldSnapshot returns a deep copy of the world for callers that need to
// keep it past the lock.
func (o *Orchestrator) WorldSnapshot() (*domain.World, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.world.Clone()
}

// EventsFrom exposes the log for SSE replay and the match-events endpoint.
func (o *Orchestrator) EventsFrom(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	return o.store.ReadFrom(ctx, afterSeq, limit)
}

// Reset clears the log and snapshots, then reruns genesis.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.advanceMu.Lock()
	defer o.advanceMu.Unlock()
	if err := o.store.Reset(ctx); err != nil {
		return err
	}
	o.lastSnapshot = 0
	return o.genesis(ctx)
}

// Subscribe registers a live event feed. The returned cancel function must
// be called to release the subscription. Slow subscribers miss events rather
// than blocking the driver.
func (o *Orchestrator) Subscribe() (<-chan event.Event, func()) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	id := o.nextSub
	o.nextSub++
	ch := make(chan event.Event, 256)
	o.subscribers[id] = ch
	return ch, func() {
		o.subMu.Lock()
		defer o.subMu.Unlock()
		if existing, ok := o.subscribers[id]; ok {
			delete(o.subscribers, id)
			close(existing)
		}
	}
}

func (o *Orchestrator) publish(events []event.Event) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	for _, ch := range o.subscribers {
		for _, evt := range events {
			select {
			case ch <- evt:
			default:
				// Subscriber is behind; it can re-sync from the log.
			}
		}
	}
}

// appendAndApply is the only way events enter the system during a run:
// append to the log first, fold into the world second, then publish.
func (o *Orchestrator) appendAndApply(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	appended, err := o.store.Append(ctx, events)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	for _, evt := range appended {
		if err := o.world.Apply(evt); err != nil {
			o.mu.Unlock()
			return nil, apperrors.Wrap(apperrors.CodeWorldInvariantViolated,
				fmt.Sprintf("apply appended event %d", evt.Seq), err)
		}
	}
	o.mu.Unlock()

	o.publish(appended)
	return appended, nil
}

// maybeSnapshot persists a world snapshot when enough events accumulated.
func (o *Orchestrator) maybeSnapshot(ctx context.Context) {
	last, err := o.store.LastSeq(ctx)
	if err != nil {
		log.Printf("snapshot: read log position: %v", err)
		return
	}
	if last/o.cfg.SnapshotInterval == o.lastSnapshot/o.cfg.SnapshotInterval {
		return
	}

	o.mu.RLock()
	blob, err := o.world.Snapshot()
	o.mu.RUnlock()
	if err != nil {
		log.Printf("snapshot: encode world: %v", err)
		return
	}
	if err := o.store.SaveSnapshot(ctx, last, blob); err != nil {
		log.Printf("snapshot: save: %v", err)
		return
	}
	o.lastSnapshot = last
}
