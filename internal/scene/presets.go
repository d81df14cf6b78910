package scene

var Presets = map[string]*Scene{
	"bouncing": {
		Name: "bouncing", Gravity: Vec{Y: -100}, Duration: 8,
		Bodies: []BodySpec{
			{Name: "floor", Type: "static", Shapes: []ShapeSpec{
				{Kind: "segment", A: Vec{X: -10}, B: Vec{X: 10}, Radius: 0.5, Friction: 0.8, Elasticity: 0.6},
			}},
			{Name: "ball", Mass: 10, Position: Vec{Y: 20}, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Friction: 0.5, Elasticity: 0.9},
			}},
		},
	},
	"stack": {
		Name: "stack", Gravity: Vec{Y: -100}, Duration: 10,
		Sleep: SleepSpec{TimeThreshold: 0.5},
		Bodies: []BodySpec{
			{Name: "floor", Type: "static", Shapes: []ShapeSpec{
				{Kind: "segment", A: Vec{X: -20}, B: Vec{X: 20}, Radius: 0.5, Friction: 0.8},
			}},
			{Mass: 1, Position: Vec{Y: 1.6}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.7},
			}},
			{Mass: 1, Position: Vec{X: 0.05, Y: 3.7}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.7},
			}},
			{Mass: 1, Position: Vec{X: -0.05, Y: 5.8}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.7},
			}},
			{Mass: 1, Position: Vec{X: 0.03, Y: 7.9}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.7},
			}},
			{Mass: 1, Position: Vec{Y: 10}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.7},
			}},
		},
	},
	"newton": {
		Name: "newton", Duration: 6,
		Bodies: []BodySpec{
			{Name: "striker", Mass: 1, Position: Vec{X: -10}, Velocity: Vec{X: 20}, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Elasticity: 1},
			}},
			{Mass: 1, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Elasticity: 1},
			}},
			{Mass: 1, Position: Vec{X: 2.01}, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Elasticity: 1},
			}},
			{Mass: 1, Position: Vec{X: 4.02}, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Elasticity: 1},
			}},
			{Mass: 1, Position: Vec{X: 6.03}, Shapes: []ShapeSpec{
				{Kind: "circle", Radius: 1, Elasticity: 1},
			}},
		},
	},
	"conveyor": {
		Name: "conveyor", Gravity: Vec{Y: -100}, Duration: 8,
		Bodies: []BodySpec{
			{Name: "belt", Type: "static", Shapes: []ShapeSpec{
				{Kind: "segment", A: Vec{X: -15}, B: Vec{X: 15}, Radius: 0.5, Friction: 1, SurfaceVelocity: Vec{X: 15}},
			}},
			{Name: "cargo", Mass: 2, Position: Vec{Y: 3}, Shapes: []ShapeSpec{
				{Kind: "box", Width: 2, Height: 2, Friction: 0.9},
			}},
		},
	},
}

func GetPreset(name string) *Scene {
	sc, ok := Presets[name]
	if !ok {
		return nil
	}
	return sc
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
