package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/MurilloYonamine/go-boid-study/assets"
	"github.com/MurilloYonamine/go-boid-study/internal/scene"
	"github.com/MurilloYonamine/go-boid-study/internal/sprites"
	"github.com/MurilloYonamine/go-boid-study/pkg/game"
	"github.com/MurilloYonamine/go-boid-study/pkg/simulation"
)

// sceneNone runs in an open rectangle of the configured world size.
const sceneNone = "none"

func main() {
	configPath := flag.String("config", "", "JSON or YAML configuration file (defaults are used when empty)")
	scenePath := flag.String("scene", "", `TMX scene file, "none" for an open pond (defaults to the bundled pond)`)
	spritesDir := flag.String("sprites", "", "directory of fish PNGs (overrides the configuration)")
	headless := flag.Bool("headless", false, "run without a window")
	ticks := flag.Int("ticks", 600, "number of 60 Hz ticks to run in headless mode")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			os.Exit(1)
		}
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	if *spritesDir != "" {
		cfg.SpritesDir = *spritesDir
	}

	logger := golog.New(cfg.Level(), os.Stdout)

	layout, err := loadLayout(cfg)
	if err != nil {
		logger.Fatalf("💥 %v", err)
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("PondSimulation", actor.WithLogger(logger))
	if err != nil {
		logger.Fatalf("💥 failed to create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatalf("💥 failed to start actor system: %v", err)
	}
	defer system.Stop(ctx)

	if *headless {
		if err := runHeadless(ctx, system, cfg, layout, *ticks, logger); err != nil {
			logger.Fatalf("💥 %v", err)
		}
		return
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}
	library := sprites.NewLibrary(logger, rng)
	if info, err := os.Stat(cfg.SpritesDir); err == nil && info.IsDir() {
		library.Load(os.DirFS(cfg.SpritesDir), ".")
	} else {
		logger.Infof("no sprite directory at %s, drawing built-in fish", cfg.SpritesDir)
	}

	g, err := game.New(ctx, system, cfg, layout, library)
	if err != nil {
		logger.Fatalf("💥 %v", err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Pond: boid avoidance")
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatalf("💥 %v", err)
	}
}

// loadLayout resolves the configured scene into world geometry. A scene also
// sets the world size, so cfg is updated to match it.
func loadLayout(cfg *simulation.Config) (simulation.Layout, error) {
	if cfg.Scene == sceneNone {
		return simulation.DefaultLayout(cfg), nil
	}

	var (
		sc  *scene.Scene
		err error
	)
	if cfg.Scene == "" {
		sc, err = scene.Load(assets.FS, assets.DefaultScene)
	} else {
		sc, err = scene.Load(os.DirFS(filepath.Dir(cfg.Scene)), filepath.Base(cfg.Scene))
	}
	if err != nil {
		return simulation.Layout{}, err
	}

	cfg.WorldWidth, cfg.WorldHeight = sc.Width, sc.Height
	return simulation.Layout{
		Bounds:     sc.Bounds(),
		SpawnArea:  sc.SpawnArea,
		Navigation: sc.Navigation,
		Obstacles:  sc.ObstacleRects(),
	}, nil
}

func runHeadless(ctx context.Context, system actor.ActorSystem, cfg *simulation.Config, layout simulation.Layout, ticks int, logger golog.Logger) error {
	pid, err := system.Spawn(ctx, "world", simulation.NewWorldActor(nil, cfg, layout))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}

	start := time.Now()
	tick := durationpb.New(time.Second / 60)
	for range ticks {
		if err := actor.Tell(ctx, pid, tick); err != nil {
			return err
		}
	}

	resp, err := actor.Ask(ctx, pid, &emptypb.Empty{}, 30*time.Second)
	if err != nil {
		return fmt.Errorf("could not read world stats: %w", err)
	}
	stats, ok := resp.(*structpb.Struct)
	if !ok {
		return fmt.Errorf("unexpected stats reply %T", resp)
	}

	f := stats.GetFields()
	logger.Infof("🏁 %d ticks (%.1fs simulated) in %s: %d units, %d navigating, kinds %v",
		int(f["tick"].GetNumberValue()),
		f["elapsedSeconds"].GetNumberValue(),
		time.Since(start).Round(time.Millisecond),
		int(f["units"].GetNumberValue()),
		int(f["navigating"].GetNumberValue()),
		f["kinds"].GetStructValue().AsMap())
	return nil
}
