// Package game renders the pond with Ebiten and turns player input into world commands.
package game

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/MurilloYonamine/go-boid-study/internal/sprites"
	"github.com/MurilloYonamine/go-boid-study/pkg/behavior"
	"github.com/MurilloYonamine/go-boid-study/pkg/geometry"
	"github.com/MurilloYonamine/go-boid-study/pkg/simulation"
	"github.com/MurilloYonamine/go-boid-study/pkg/ui"
)

const (
	panelWidth   = 230.0
	gizmoFade    = 0.25 // seconds
	baseFishSize = 18.0
)

var (
	waterColor    = color.RGBA{R: 18, G: 58, B: 78, A: 255}
	areaColor     = color.RGBA{R: 120, G: 180, B: 200, A: 120}
	obstacleColor = color.RGBA{R: 96, G: 84, B: 62, A: 255}
	radiusColor   = color.RGBA{R: 60, G: 120, B: 255, A: 255}
	contactColor  = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	pathColor     = color.RGBA{R: 250, G: 220, B: 90, A: 255}

	kindKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
)

// Game is the ebiten.Game driving a WorldActor.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	logger     golog.Logger

	cfg     *simulation.Config
	library *sprites.Library
	skins   map[string]*ebiten.Image
	builtin []*ebiten.Image

	panel                 *ui.Panel
	widgetRepulsion       *ui.Slider
	widgetRadius          *ui.Slider
	widgetAutonomousAvoid *ui.Slider
	widgetNavigationAvoid *ui.Slider
	widgetGizmos          *ui.Checkbox

	// gizmo opacity, eased toward 0 or 1 when the checkbox flips
	gizmoAlpha float32
	gizmoShown bool
	gizmoTween *gween.Tween

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// New spawns the world actor and builds the control panel.
func New(ctx context.Context, system actor.ActorSystem, cfg *simulation.Config, layout simulation.Layout, library *sprites.Library) (*Game, error) {
	snapshotCh := make(chan *simulation.Snapshot, 10)

	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(snapshotCh, cfg, layout))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{Layout: layout},
		logger:     system.Logger(),
		cfg:        cfg,
		library:    library,
		skins:      make(map[string]*ebiten.Image),
		gizmoShown: cfg.ShowGizmos,
	}
	if cfg.ShowGizmos {
		g.gizmoAlpha = 1
	}
	for i := range cfg.Kinds {
		g.builtin = append(g.builtin, builtinFish(i))
	}

	g.panel = ui.NewPanel("Pond", float64(cfg.WorldWidth)-panelWidth-10, 10, panelWidth, float64(cfg.WorldHeight)-20)

	g.panel.AddSection("Avoidance")
	g.widgetRepulsion = g.panel.AddSlider("Repulsion Strength", 0, 5, cfg.RepulsionStrength)
	g.widgetRadius = g.panel.AddSlider("Detection Radius", 10, 200, cfg.DetectionRadius)
	g.widgetRadius.Format = "%.0f"
	g.panel.EndSection()

	g.panel.AddSection("Steering")
	g.widgetAutonomousAvoid = g.panel.AddSlider("Autonomous Avoid Weight", 0, 2, cfg.AutonomousAvoidWeight)
	g.widgetNavigationAvoid = g.panel.AddSlider("Navigation Avoid Weight", 0, 2, cfg.NavigationAvoidWeight)
	g.panel.EndSection()

	g.panel.AddSection("Population")
	for i, kind := range cfg.Kinds {
		b := g.panel.AddButton(fmt.Sprintf("Spawn %s", kind.Name), func() {
			g.send(simulation.SpawnKindCommand(i))
		})
		if i < len(kindKeys) {
			b.Label = fmt.Sprintf("[%d] %s", i+1, b.Label)
			b.Bind(kindKeys[i])
		}
	}
	g.panel.AddButton("[G] Spawn intruder", func() { g.send(simulation.IntruderCommand()) }).Bind(ebiten.KeyG)
	g.panel.EndSection()

	g.panel.AddSection("Visualization")
	g.widgetGizmos = g.panel.AddCheckbox("[D] Show Gizmos", cfg.ShowGizmos)
	g.widgetGizmos.Bind(ebiten.KeyD)
	g.panel.EndSection()

	return g, nil
}

// send encodes a command and posts it to the world.
func (g *Game) send(cmd simulation.Command) {
	msg, err := cmd.Encode()
	if err != nil {
		g.logger.Errorf("could not encode %s command: %v", cmd.Type, err)
		return
	}
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.logger.Errorf("could not send %s command: %v", cmd.Type, err)
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	g.handleInput()
	g.sendTuning()
	g.updateGizmoFade()

	g.lastState = simulation.LatestSnapshot(g.snapshotCh, g.lastState)

	tick := time.Second / time.Duration(ebiten.TPS())
	if err := actor.Tell(g.ctx, g.worldPID, durationpb.New(tick)); err != nil {
		return fmt.Errorf("world is gone: %w", err)
	}
	return nil
}

func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	cursor := geometry.NewVector(float64(mx), float64(my))

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && !g.panel.Contains(mx, my) {
		g.send(simulation.NavigateCommand(cursor))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) && !g.panel.Contains(mx, my) && len(g.cfg.Kinds) > 0 {
		g.send(simulation.SpawnKindAtCommand(0, cursor))
	}
}

// sendTuning forwards the sliders the user moved this frame.
func (g *Game) sendTuning() {
	params := make(map[string]float64)
	if g.widgetRepulsion.Changed() {
		params[simulation.ParamRepulsionStrength] = g.widgetRepulsion.Value
	}
	if g.widgetRadius.Changed() {
		params[simulation.ParamDetectionRadius] = g.widgetRadius.Value
	}
	if g.widgetAutonomousAvoid.Changed() {
		params[simulation.ParamAutonomousAvoidWeight] = g.widgetAutonomousAvoid.Value
	}
	if g.widgetNavigationAvoid.Changed() {
		params[simulation.ParamNavigationAvoidWeight] = g.widgetNavigationAvoid.Value
	}
	if len(params) > 0 {
		g.send(simulation.TuneCommand(params))
	}
}

func (g *Game) updateGizmoFade() {
	if g.widgetGizmos.Value != g.gizmoShown {
		g.gizmoShown = g.widgetGizmos.Value
		to := float32(0)
		if g.gizmoShown {
			to = 1
		}
		g.gizmoTween = gween.New(g.gizmoAlpha, to, gizmoFade, ease.OutQuad)
	}
	if g.gizmoTween == nil {
		return
	}
	alpha, done := g.gizmoTween.Update(1 / float32(ebiten.TPS()))
	g.gizmoAlpha = alpha
	if done {
		g.gizmoTween = nil
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(waterColor)
	g.drawLayout(screen)

	if g.gizmoAlpha > 0 {
		g.drawGizmos(screen)
	}
	seen := make(map[string]struct{}, len(g.lastState.Units))
	for _, u := range g.lastState.Units {
		seen[u.ID] = struct{}{}
		g.drawUnit(screen, u)
	}
	// forget the skins of despawned units
	if len(g.skins) > len(seen) {
		for id := range g.skins {
			if _, ok := seen[id]; !ok {
				delete(g.skins, id)
			}
		}
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms\n\nUnits: %d\nNavigating: %d\nTick: %d",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		len(g.lastState.Units),
		g.lastState.Navigating(),
		g.lastState.Tick)
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
	ebitenutil.DebugPrintAt(screen, "click: swim there   right click: drop a fish", 10, int(g.cfg.WorldHeight)-20)
}

func (g *Game) drawLayout(screen *ebiten.Image) {
	layout := g.lastState.Layout
	area := layout.Navigation
	vector.StrokeRect(screen, float32(area.Position.X), float32(area.Position.Y), float32(area.Size.X), float32(area.Size.Y), 1, areaColor, true)
	for _, o := range layout.Obstacles {
		vector.FillRect(screen, float32(o.Position.X), float32(o.Position.Y), float32(o.Size.X), float32(o.Size.Y), obstacleColor, true)
	}
}

func (g *Game) skin(u simulation.UnitView) *ebiten.Image {
	if img, ok := g.skins[u.ID]; ok {
		return img
	}
	var img *ebiten.Image
	if g.library != nil && g.library.Len() > 0 {
		img = ebiten.NewImageFromImage(g.library.Random().Image)
	} else {
		img = g.builtin[u.Kind%len(g.builtin)]
	}
	g.skins[u.ID] = img
	return img
}

func (g *Game) drawUnit(screen *ebiten.Image, u simulation.UnitView) {
	img := g.skin(u)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	// heavier fish are drawn bigger
	scale := baseFishSize * geometry.Clamp(u.Mass, 0.5, 3) / float64(max(w, 1))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	if u.FlipH {
		op.GeoM.Scale(-scale, scale)
	} else {
		op.GeoM.Scale(scale, scale)
	}
	op.GeoM.Translate(u.Position.X, u.Position.Y)
	screen.DrawImage(img, op)
}

func (g *Game) drawGizmos(screen *ebiten.Image) {
	fade := func(c color.RGBA) color.RGBA {
		c.A = uint8(float32(c.A) * g.gizmoAlpha)
		return c
	}

	positions := make(map[string]geometry.Vector2D, len(g.lastState.Units))
	for _, u := range g.lastState.Units {
		positions[u.ID] = u.Position
	}

	for _, u := range g.lastState.Units {
		x, y := float32(u.Position.X), float32(u.Position.Y)
		vector.StrokeCircle(screen, x, y, float32(g.lastState.DetectionRadius), 2, fade(radiusColor), true)
		for _, id := range u.Nearby {
			if p, ok := positions[id]; ok {
				vector.StrokeLine(screen, x, y, float32(p.X), float32(p.Y), 3, fade(contactColor), true)
			}
		}
		if u.Mode == behavior.ModeNavigated {
			from := u.Position
			for _, wp := range u.Path {
				vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(wp.X), float32(wp.Y), 1, fade(pathColor), true)
				from = wp
			}
		}
		if u.HasTarget {
			vector.StrokeCircle(screen, float32(u.Target.X), float32(u.Target.Y), 6, 2, fade(pathColor), true)
		}
	}
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
