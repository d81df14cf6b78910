package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/rigid2d"
	"github.com/san-kum/rigid2d/internal/kernel"
)

func TestDefaultScene(t *testing.T) {
	sc := DefaultScene()
	if sc.Gravity.X != 0 || sc.Gravity.Y != DefaultGravityY {
		t.Errorf("expected gravity (0, %v), got (%v, %v)", DefaultGravityY, sc.Gravity.X, sc.Gravity.Y)
	}
	if sc.Damping != DefaultDamping {
		t.Errorf("expected damping %v, got %v", DefaultDamping, sc.Damping)
	}
	if sc.Iterations != DefaultIterations {
		t.Errorf("expected %d iterations, got %d", DefaultIterations, sc.Iterations)
	}
	if sc.Dt != DefaultDt {
		t.Errorf("expected dt %v, got %v", DefaultDt, sc.Dt)
	}
	if len(sc.Bodies) != 0 {
		t.Errorf("expected no bodies, got %d", len(sc.Bodies))
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`name: drop
gravity:
  y: -10
bodies:
  - mass: 2
    shapes:
      - kind: circle
        radius: 0.5
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	if sc.Name != "drop" {
		t.Errorf("expected name drop, got %q", sc.Name)
	}
	if sc.Gravity.Y != -10 {
		t.Errorf("expected gravity y -10, got %v", sc.Gravity.Y)
	}
	if sc.Damping != DefaultDamping {
		t.Errorf("expected default damping %v, got %v", DefaultDamping, sc.Damping)
	}
	if sc.Dt != DefaultDt {
		t.Errorf("expected default dt %v, got %v", DefaultDt, sc.Dt)
	}
	if len(sc.Bodies) != 1 || sc.Bodies[0].Mass != 2 {
		t.Errorf("expected one body of mass 2, got %+v", sc.Bodies)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	sc := GetPreset("bouncing")
	if err := Save(path, sc); err != nil {
		t.Fatalf("save scene: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load scene: %v", err)
	}
	if loaded.Name != sc.Name {
		t.Errorf("expected name %q, got %q", sc.Name, loaded.Name)
	}
	if len(loaded.Bodies) != len(sc.Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(sc.Bodies), len(loaded.Bodies))
	}
	if loaded.Bodies[1].Mass != 10 {
		t.Errorf("expected ball mass 10, got %v", loaded.Bodies[1].Mass)
	}
	if loaded.Bodies[0].Shapes[0].Kind != "segment" {
		t.Errorf("expected floor segment, got %q", loaded.Bodies[0].Shapes[0].Kind)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 {
		t.Errorf("expected 4 presets, got %d: %v", len(names), names)
	}
	for _, name := range []string{"bouncing", "stack", "newton", "conveyor"} {
		sc := GetPreset(name)
		if sc == nil {
			t.Errorf("expected preset %q, got nil", name)
			continue
		}
		if sc.Name != name {
			t.Errorf("expected preset name %q, got %q", name, sc.Name)
		}
	}
	if sc := GetPreset("nope"); sc != nil {
		t.Errorf("expected nil for unknown preset, got %+v", sc)
	}
}

func TestBuildBouncing(t *testing.T) {
	before := kernel.Live()

	w, err := GetPreset("bouncing").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := w.Space.BodyCount(); got != 2 {
		t.Errorf("expected 2 bodies, got %d", got)
	}
	if got := w.Space.ShapeCount(); got != 2 {
		t.Errorf("expected 2 shapes, got %d", got)
	}

	ball, ok := w.Body("ball")
	if !ok {
		t.Fatalf("expected ball body")
	}
	var y0 float64
	ball.Read(func(b *rigid2d.Body) { y0 = b.Position().Y })
	for i := 0; i < 30; i++ {
		w.Step()
	}
	var y1, vy float64
	ball.Read(func(b *rigid2d.Body) {
		y1 = b.Position().Y
		vy = b.Velocity().Y
	})
	if y1 >= y0 {
		t.Errorf("expected ball to fall, got y %v -> %v", y0, y1)
	}
	if vy >= 0 {
		t.Errorf("expected downward velocity, got %v", vy)
	}

	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if got := kernel.Live(); got != before {
		t.Errorf("expected %d live kernel objects after close, got %d", before, got)
	}
}

func TestBuildAutoMoment(t *testing.T) {
	w, err := GetPreset("bouncing").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer w.Close()

	ball, _ := w.Body("ball")
	want := rigid2d.MomentForCircle(10, 0, 1, rigid2d.V(0, 0))
	ball.Read(func(b *rigid2d.Body) {
		if got := b.Moment(); math.Abs(got-want) > 1e-9 {
			t.Errorf("expected derived moment %v, got %v", want, got)
		}
	})
}

func TestBuildNamesBodies(t *testing.T) {
	w, err := GetPreset("stack").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer w.Close()

	names := w.BodyNames()
	want := []string{"floor", "body1", "body2", "body3", "body4", "body5"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected name %q at %d, got %q", want[i], i, names[i])
		}
	}
	if _, ok := w.Body("body3"); !ok {
		t.Errorf("expected body3 to resolve")
	}
	if _, ok := w.Body("nope"); ok {
		t.Errorf("expected unknown name to miss")
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name  string
		scene *Scene
	}{
		{"unknown body type", &Scene{Bodies: []BodySpec{{Type: "squishy", Mass: 1}}}},
		{"zero mass dynamic", &Scene{Bodies: []BodySpec{{Type: "dynamic"}}}},
		{"unknown shape kind", &Scene{Bodies: []BodySpec{
			{Mass: 1, Shapes: []ShapeSpec{{Kind: "blob"}}},
		}}},
		{"negative friction", &Scene{Bodies: []BodySpec{
			{Mass: 1, Shapes: []ShapeSpec{{Kind: "circle", Radius: 1, Friction: -0.5}}},
		}}},
		{"negative elasticity", &Scene{Bodies: []BodySpec{
			{Mass: 1, Shapes: []ShapeSpec{{Kind: "circle", Radius: 1, Elasticity: -1}}},
		}}},
		{"clockwise poly", &Scene{Bodies: []BodySpec{
			{Mass: 1, Moment: 1, Shapes: []ShapeSpec{
				{Kind: "poly", Verts: []Vec{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}},
			}},
		}}},
		{"duplicate names", &Scene{Bodies: []BodySpec{
			{Name: "a", Mass: 1}, {Name: "a", Mass: 1},
		}}},
	}

	before := kernel.Live()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.scene.Build()
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			var serr *SceneError
			if !errors.As(err, &serr) {
				t.Errorf("expected a *SceneError, got %T: %v", err, err)
			}
		})
	}
	if got := kernel.Live(); got != before {
		t.Errorf("expected %d live kernel objects after failed builds, got %d", before, got)
	}
}

func TestBuildErrorKeepsSentinel(t *testing.T) {
	sc := &Scene{Bodies: []BodySpec{
		{Mass: 1, Shapes: []ShapeSpec{{Kind: "circle", Radius: 1, Friction: -0.5}}},
	}}
	_, err := sc.Build()
	if !errors.Is(err, rigid2d.ErrNegativeFriction) {
		t.Errorf("expected ErrNegativeFriction through the wrapper, got %v", err)
	}
}

func TestBuildConveyorDrags(t *testing.T) {
	w, err := GetPreset("conveyor").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer w.Close()

	cargo, ok := w.Body("cargo")
	if !ok {
		t.Fatalf("expected cargo body")
	}
	for i := 0; i < 120; i++ {
		w.Step()
	}
	var vx float64
	cargo.Read(func(b *rigid2d.Body) { vx = b.Velocity().X })
	if vx <= 0.5 {
		t.Errorf("expected belt to drag cargo along +x, got vx %v", vx)
	}
}

func TestWorldStepAdvancesStamp(t *testing.T) {
	w, err := GetPreset("newton").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer w.Close()

	if got := w.Steps(); got != 360 {
		t.Errorf("expected 360 steps, got %d", got)
	}
	for i := 0; i < 5; i++ {
		w.Step()
	}
	if got := w.Space.Stamp(); got != 5 {
		t.Errorf("expected stamp 5, got %d", got)
	}
}
