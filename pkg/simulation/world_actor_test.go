package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
)

func spawnWorldActor(t *testing.T, snapshots chan *Snapshot) (context.Context, *actor.PID) {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("PondTest", actor.WithLogger(golog.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))
	t.Cleanup(func() { _ = system.Stop(ctx) })

	cfg := testConfig()
	pid, err := system.Spawn(ctx, "world", NewWorldActor(snapshots, cfg, DefaultLayout(cfg)))
	require.NoError(t, err)
	return ctx, pid
}

func askStats(t *testing.T, ctx context.Context, pid *actor.PID) *structpb.Struct {
	t.Helper()
	resp, err := actor.Ask(ctx, pid, &emptypb.Empty{}, time.Second)
	require.NoError(t, err)
	stats, ok := resp.(*structpb.Struct)
	require.True(t, ok, "unexpected response %T", resp)
	return stats
}

func TestWorldActor_TicksAndCommands(t *testing.T) {
	snapshots := make(chan *Snapshot, 100)
	ctx, pid := spawnWorldActor(t, snapshots)

	for range 10 {
		require.NoError(t, actor.Tell(ctx, pid, durationpb.New(time.Second/60)))
	}
	intruder, err := IntruderCommand().Encode()
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, intruder))

	stats := askStats(t, ctx, pid)
	fields := stats.GetFields()
	assert.Equal(t, 10.0, fields["tick"].GetNumberValue())
	assert.Equal(t, 6.0, fields["units"].GetNumberValue(), "initial population plus the intruder")
	assert.Equal(t, 0.0, fields["navigating"].GetNumberValue())
	assert.InDelta(t, 10.0/60.0, fields["elapsedSeconds"].GetNumberValue(), 1e-6)

	// the UI channel got the latest state
	last := LatestSnapshot(snapshots, nil)
	require.NotNil(t, last)
	assert.Len(t, last.Units, 6)
	assert.Equal(t, uint64(10), last.Tick)
	assert.Empty(t, snapshots)
}

func TestWorldActor_CommandsDoNotLeaveStaleSnapshots(t *testing.T) {
	snapshots := make(chan *Snapshot, 10)
	ctx, pid := spawnWorldActor(t, snapshots)

	// a slider drag sends a tune command with every frame
	for i := range 4 {
		tune, err := TuneCommand(map[string]float64{ParamRepulsionStrength: float64(i + 1)}).Encode()
		require.NoError(t, err)
		require.NoError(t, actor.Tell(ctx, pid, tune))
		require.NoError(t, actor.Tell(ctx, pid, durationpb.New(time.Second/60)))
	}
	askStats(t, ctx, pid)

	first := &Snapshot{}
	last := LatestSnapshot(snapshots, first)
	assert.Equal(t, uint64(4), last.Tick)
	assert.Empty(t, snapshots)

	// nothing new: the current state is kept
	assert.Same(t, last, LatestSnapshot(snapshots, last))
}

func TestWorldActor_NavigateAndTune(t *testing.T) {
	ctx, pid := spawnWorldActor(t, nil)

	nav, err := NavigateCommand(geometry.Vector2D{X: 200, Y: 200}).Encode()
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, nav))

	tune, err := TuneCommand(map[string]float64{ParamDetectionRadius: 90}).Encode()
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, tune))

	stats := askStats(t, ctx, pid)
	assert.Equal(t, 5.0, stats.GetFields()["navigating"].GetNumberValue())
	assert.Equal(t, 90.0, stats.GetFields()["detectionRadius"].GetNumberValue())
}

func TestWorldActor_RejectsBadCommands(t *testing.T) {
	ctx, pid := spawnWorldActor(t, nil)

	bad, err := structpb.NewStruct(map[string]interface{}{"type": "dance"})
	require.NoError(t, err)
	require.NoError(t, actor.Tell(ctx, pid, bad))

	// the actor keeps serving requests
	stats := askStats(t, ctx, pid)
	assert.Equal(t, 5.0, stats.GetFields()["units"].GetNumberValue())
}
