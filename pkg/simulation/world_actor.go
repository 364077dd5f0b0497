package simulation

import (
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor owns the World. Every mutation goes through its mailbox, so the
// simulation itself stays single-threaded.
//
// Messages:
//
//	*durationpb.Duration  advance the world by that much time
//	*structpb.Struct      a Command (see Command.Encode)
//	*emptypb.Empty        ask for statistics, answered with a *structpb.Struct
type WorldActor struct {
	cfg    *Config
	layout Layout
	world  *World

	// Communication with UI
	snapshotCh chan<- *Snapshot

	// --- Telemetry ---
	tickCount    int
	commandCount int
	failedCount  int
	lastLogTime  time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. snapshotCh may be nil when nobody renders.
func NewWorldActor(snapshotCh chan<- *Snapshot, cfg *Config, layout Layout) *WorldActor {
	return &WorldActor{
		cfg:         cfg,
		layout:      layout,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	world, err := NewWorld(w.cfg, w.layout, ctx.ActorSystem().Logger())
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	w.world = world
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started. Spawning the pond...")
		w.world.SpawnInitial()
		w.pushSnapshot()

	// The Main Simulation Step (Driven by Game Loop)
	case *durationpb.Duration:
		w.tickCount++
		w.world.Step(msg.AsDuration().Seconds())
		w.logTelemetry(ctx)
		w.pushSnapshot()

	case *structpb.Struct:
		w.commandCount++
		cmd, err := DecodeCommand(msg)
		if err == nil {
			err = w.world.Apply(cmd)
		}
		if err != nil {
			w.failedCount++
			ctx.Logger().Warnf("command rejected: %v", err)
			return
		}
		w.pushSnapshot()

	case *emptypb.Empty:
		stats, err := w.stats()
		if err != nil {
			ctx.Logger().Errorf("failed to build stats: %v", err)
			stats = &structpb.Struct{}
		}
		ctx.Response(stats)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logTelemetry(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		snap := w.world.Snapshot()
		ctx.Logger().Infof("📊 TICKS: %d/sec | Commands: %d (failed %d) | Units: %d (navigating %d)",
			w.tickCount, w.commandCount, w.failedCount, len(snap.Units), snap.Navigating())
		w.tickCount = 0
		w.commandCount = 0
		w.failedCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) stats() (*structpb.Struct, error) {
	snap := w.world.Snapshot()
	kinds := make(map[string]interface{})
	for name, n := range snap.CountByKind() {
		kinds[name] = n
	}
	return structpb.NewStruct(map[string]interface{}{
		"tick":            float64(snap.Tick),
		"elapsedSeconds":  snap.Elapsed.Seconds(),
		"units":           len(snap.Units),
		"navigating":      snap.Navigating(),
		"detectionRadius": snap.DetectionRadius,
		"kinds":           kinds,
	})
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
