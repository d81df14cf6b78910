// Package scene loads simulation scenes from YAML and builds live
// spaces from them. A [Scene] is pure data; [Scene.Build] turns it into
// a [World] that owns the space and a handle per named body.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigid2d"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultDamping    = 1.0
	DefaultIterations = 10
	DefaultGravityY   = -100.0
)

// Vec is a point or vector in scene files.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Scene describes a space and its initial population. Zero-valued
// tunables mean "use the default", so sparse files and presets stay
// short.
type Scene struct {
	Name       string     `yaml:"name"`
	Gravity    Vec        `yaml:"gravity"`
	Damping    float64    `yaml:"damping"`
	Iterations int        `yaml:"iterations"`
	Dt         float64    `yaml:"dt"`
	Duration   float64    `yaml:"duration"`
	Sleep      SleepSpec  `yaml:"sleep"`
	Bodies     []BodySpec `yaml:"bodies"`
}

// SleepSpec enables sleeping when TimeThreshold is positive.
type SleepSpec struct {
	TimeThreshold  float64 `yaml:"time_threshold"`
	SpeedThreshold float64 `yaml:"speed_threshold"`
}

// BodySpec describes one body. Type is "dynamic", "kinematic" or
// "static". A zero Moment on a dynamic body derives the moment from the
// body's shapes.
type BodySpec struct {
	Name            string      `yaml:"name"`
	Type            string      `yaml:"type"`
	Mass            float64     `yaml:"mass"`
	Moment          float64     `yaml:"moment"`
	Position        Vec         `yaml:"position"`
	Velocity        Vec         `yaml:"velocity"`
	Angle           float64     `yaml:"angle"`
	AngularVelocity float64     `yaml:"angular_velocity"`
	Shapes          []ShapeSpec `yaml:"shapes"`
}

// ShapeSpec describes one shape. Kind is "circle", "segment", "box" or
// "poly"; the geometry fields for the other kinds are ignored. A
// positive Density recomputes the owning body's mass and moment from
// its shapes, overriding the BodySpec values.
type ShapeSpec struct {
	Kind            string  `yaml:"kind"`
	Radius          float64 `yaml:"radius"`
	Offset          Vec     `yaml:"offset"`
	A               Vec     `yaml:"a"`
	B               Vec     `yaml:"b"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Verts           []Vec   `yaml:"verts"`
	Friction        float64 `yaml:"friction"`
	Elasticity      float64 `yaml:"elasticity"`
	Density         float64 `yaml:"density"`
	Sensor          bool    `yaml:"sensor"`
	SurfaceVelocity Vec     `yaml:"surface_velocity"`
}

// DefaultScene returns an empty scene with downward gravity and the
// default step, damping and solver settings.
func DefaultScene() *Scene {
	return &Scene{
		Name:       "empty",
		Gravity:    Vec{Y: DefaultGravityY},
		Damping:    DefaultDamping,
		Iterations: DefaultIterations,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
	}
}

// Load reads a scene file. Fields absent from the file keep their
// DefaultScene values.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScene()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Save writes a scene file.
func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// withDefaults returns a copy with zero-valued tunables replaced by the
// defaults, so hand-written presets can omit them.
func (sc *Scene) withDefaults() Scene {
	out := *sc
	if out.Damping == 0 {
		out.Damping = DefaultDamping
	}
	if out.Iterations == 0 {
		out.Iterations = DefaultIterations
	}
	if out.Dt == 0 {
		out.Dt = DefaultDt
	}
	if out.Duration == 0 {
		out.Duration = DefaultDuration
	}
	return out
}

// Steps returns the number of steps covering Duration at Dt.
func (sc *Scene) Steps() int {
	eff := sc.withDefaults()
	return int(math.Round(eff.Duration / eff.Dt))
}

func vec(v Vec) rigid2d.Vect { return rigid2d.V(v.X, v.Y) }

// World is a built scene: the live space plus one owned handle per
// body, addressable by name. Close releases the handles and the space.
type World struct {
	Scene  Scene
	Space  *rigid2d.Space
	names  []string
	bodies map[string]*rigid2d.BodyHandle
}

// Build constructs a space populated from the scene. Bodies keep their
// declaration order; unnamed bodies are named "body0", "body1" and so
// on. The caller owns the returned world and must Close it.
func (sc *Scene) Build() (*World, error) {
	eff := sc.withDefaults()

	space := rigid2d.NewSpace()
	space.SetGravity(vec(eff.Gravity))
	space.SetDamping(eff.Damping)
	space.SetIterations(eff.Iterations)
	if eff.Sleep.TimeThreshold > 0 {
		space.SetSleepTimeThreshold(eff.Sleep.TimeThreshold)
	}
	if eff.Sleep.SpeedThreshold > 0 {
		space.SetIdleSpeedThreshold(eff.Sleep.SpeedThreshold)
	}

	w := &World{
		Scene:  eff,
		Space:  space,
		bodies: make(map[string]*rigid2d.BodyHandle, len(eff.Bodies)),
	}
	for i := range eff.Bodies {
		if err := w.addBody(&eff.Bodies[i], i); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *World) addBody(spec *BodySpec, index int) error {
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("body%d", index)
	}
	fail := func(stage string, err error) error {
		return &SceneError{Scene: w.Scene.Name, Stage: stage, Wrapped: err}
	}
	if _, dup := w.bodies[name]; dup {
		return fail(fmt.Sprintf("body %q", name), errors.New("duplicate name"))
	}

	body, err := newBody(spec)
	if err != nil {
		return fail(fmt.Sprintf("body %q", name), err)
	}
	if err := w.Space.AddBody(body); err != nil {
		body.Release()
		return fail(fmt.Sprintf("body %q", name), err)
	}
	for j := range spec.Shapes {
		if err := w.addShape(body, &spec.Shapes[j]); err != nil {
			body.Release()
			return fail(fmt.Sprintf("body %q shape %d", name, j), err)
		}
	}
	w.names = append(w.names, name)
	w.bodies[name] = body
	return nil
}

func newBody(spec *BodySpec) (*rigid2d.BodyHandle, error) {
	var body *rigid2d.BodyHandle
	switch spec.Type {
	case "dynamic", "":
		if spec.Mass <= 0 {
			return nil, errors.New("dynamic body needs a positive mass")
		}
		moment, err := bodyMoment(spec)
		if err != nil {
			return nil, err
		}
		body = rigid2d.NewBody(spec.Mass, moment)
	case "kinematic":
		body = rigid2d.NewKinematicBody()
	case "static":
		body = rigid2d.NewStaticBody()
	default:
		return nil, fmt.Errorf("unknown type %q", spec.Type)
	}

	body.Write(func(b *rigid2d.Body) {
		b.SetPosition(vec(spec.Position))
		b.SetAngle(spec.Angle)
		if spec.Type != "static" {
			b.SetVelocity(vec(spec.Velocity))
			b.SetAngularVelocity(spec.AngularVelocity)
		}
	})
	return body, nil
}

// bodyMoment derives a dynamic body's moment when the spec leaves it
// zero, splitting the mass evenly across the shapes.
func bodyMoment(spec *BodySpec) (float64, error) {
	if spec.Moment > 0 {
		return spec.Moment, nil
	}
	if len(spec.Shapes) == 0 {
		// Point masses get a nominal moment so angular math stays finite.
		return spec.Mass, nil
	}
	share := spec.Mass / float64(len(spec.Shapes))
	var moment float64
	for i := range spec.Shapes {
		sh := &spec.Shapes[i]
		switch sh.Kind {
		case "circle":
			moment += rigid2d.MomentForCircle(share, 0, sh.Radius, vec(sh.Offset))
		case "segment":
			moment += rigid2d.MomentForSegment(share, vec(sh.A), vec(sh.B), sh.Radius)
		case "box":
			moment += rigid2d.MomentForBox(share, sh.Width, sh.Height)
		case "poly":
			verts := make([]rigid2d.Vect, len(sh.Verts))
			for j, v := range sh.Verts {
				verts[j] = vec(v)
			}
			moment += rigid2d.MomentForPoly(share, verts, rigid2d.V(0, 0), sh.Radius)
		default:
			return 0, fmt.Errorf("unknown shape kind %q", sh.Kind)
		}
	}
	return moment, nil
}

func (w *World) addShape(body *rigid2d.BodyHandle, spec *ShapeSpec) error {
	var (
		shape *rigid2d.ShapeHandle
		err   error
	)
	switch spec.Kind {
	case "circle":
		shape = rigid2d.NewCircle(body, spec.Radius, vec(spec.Offset))
	case "segment":
		shape = rigid2d.NewSegment(body, vec(spec.A), vec(spec.B), spec.Radius)
	case "box":
		shape, err = rigid2d.NewBox(body, spec.Width, spec.Height, spec.Radius)
	case "poly":
		verts := make([]rigid2d.Vect, len(spec.Verts))
		for i, v := range spec.Verts {
			verts[i] = vec(v)
		}
		shape, err = rigid2d.NewPoly(body, verts, spec.Radius)
	default:
		return fmt.Errorf("unknown shape kind %q", spec.Kind)
	}
	if err != nil {
		return err
	}
	defer shape.Release()

	shape.Write(func(s *rigid2d.Shape) {
		if err = s.SetFriction(spec.Friction); err != nil {
			return
		}
		if err = s.SetElasticity(spec.Elasticity); err != nil {
			return
		}
		s.SetSurfaceVelocity(vec(spec.SurfaceVelocity))
		s.SetSensor(spec.Sensor)
		if spec.Density > 0 {
			err = s.SetDensity(spec.Density)
		}
	})
	if err != nil {
		return err
	}
	return w.Space.AddShape(shape)
}

// Body returns the handle for a named body. The handle is owned by the
// world; callers must not release it.
func (w *World) Body(name string) (*rigid2d.BodyHandle, bool) {
	h, ok := w.bodies[name]
	return h, ok
}

// BodyNames returns the body names in declaration order.
func (w *World) BodyNames() []string {
	out := make([]string, len(w.names))
	copy(out, w.names)
	return out
}

// Step advances the space by the scene's dt.
func (w *World) Step() { w.Space.Step(w.Scene.Dt) }

// Steps returns the number of steps covering the scene's duration.
func (w *World) Steps() int { return w.Scene.Steps() }

// Close releases the world's body handles and closes the space.
func (w *World) Close() error {
	for _, name := range w.names {
		w.bodies[name].Release()
		delete(w.bodies, name)
	}
	w.names = nil
	return w.Space.Close()
}
