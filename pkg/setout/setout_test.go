package setout_test

import (
	"math"
	"testing"

	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/geom"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
	"github.com/ezhangle/SetoutPoints/pkg/scene"
	"github.com/ezhangle/SetoutPoints/pkg/setout"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const epsilon = 1e-9

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// makeBox creates a box solid or fails the test.
func makeBox(t *testing.T, name string, min, max mgl64.Vec3) *brep.Solid {
	t.Helper()
	s, err := brep.Box(name, min, max)
	if err != nil {
		t.Fatalf("brep.Box(%q) error = %v", name, err)
	}
	return s
}

// makeScene builds a scene with a direct box, an instance of a shared
// symbol and an object with nothing to measure.
func makeScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()

	door := brep.NewSymbol("door", makeBox(t, "leaf", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0.25, 7}))
	s.AddSymbol(door)

	s.AddObject(brep.NewObject("slab", makeBox(t, "slab", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{20, 30, 1})))
	s.AddObject(brep.NewObject("door-1", brep.NewInstance(door, geom.Translation(5, 0, 1))))
	s.AddObject(brep.NewObject("grid-line"))
	return s
}

func TestDefaultConfig(t *testing.T) {
	cfg := setout.DefaultConfig()
	if cfg.Tolerance != corners.DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", cfg.Tolerance, corners.DefaultTolerance)
	}
	if cfg.DetailLevel != kernel.DetailFine {
		t.Errorf("DetailLevel = %v, want fine", cfg.DetailLevel)
	}
	if cfg.Envelopes {
		t.Error("envelopes should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*setout.Config)
		wantErr bool
	}{
		{"defaults", func(*setout.Config) {}, false},
		{"zero tolerance", func(c *setout.Config) { c.Tolerance = 0 }, true},
		{"negative tolerance", func(c *setout.Config) { c.Tolerance = -1 }, true},
		{"nan tolerance", func(c *setout.Config) { c.Tolerance = math.NaN() }, true},
		{"infinite tolerance", func(c *setout.Config) { c.Tolerance = math.Inf(1) }, true},
		{"unknown detail", func(c *setout.Config) { c.DetailLevel = 9 }, true},
		{"envelope cells", func(c *setout.Config) { c.Envelopes = true; c.MeshCells = 1 }, true},
		{"cells ignored without envelopes", func(c *setout.Config) { c.MeshCells = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setout.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidToleranceCause(t *testing.T) {
	cfg := setout.DefaultConfig()
	cfg.Tolerance = 0
	_, err := setout.New(cfg)
	if errors.Cause(err) != corners.ErrInvalidTolerance {
		t.Errorf("New() error = %v, want cause ErrInvalidTolerance", err)
	}
}

func TestRun(t *testing.T) {
	results, err := setout.Run(makeScene(t), setout.DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	wantNames := []string{"slab", "door-1", "grid-line"}
	for i, want := range wantNames {
		if results[i].Object != want {
			t.Errorf("results[%d].Object = %q, want %q", i, results[i].Object, want)
		}
	}

	slab := results[0]
	if !slab.OK() {
		t.Fatalf("slab error = %v", slab.Err)
	}
	if !vecNear(slab.Analysis.Box.Center(), mgl64.Vec3{10, 15, 0.5}, epsilon) {
		t.Errorf("slab center = %v, want (10,15,0.5)", slab.Analysis.Box.Center())
	}

	door := results[1]
	if !door.OK() {
		t.Fatalf("door error = %v", door.Err)
	}
	if !vecNear(door.Analysis.Box.Center(), mgl64.Vec3{6.5, 0.125, 4.5}, epsilon) {
		t.Errorf("door center = %v, want (6.5,0.125,4.5)", door.Analysis.Box.Center())
	}
	if !vecNear(door.Analysis.Box.HalfExtents(), mgl64.Vec3{1.5, 0.125, 3.5}, epsilon) {
		t.Errorf("door half extents = %v, want (1.5,0.125,3.5)", door.Analysis.Box.HalfExtents())
	}
	if len(door.Points()) != 8 {
		t.Errorf("len(door.Points()) = %d, want 8", len(door.Points()))
	}
	if door.Envelope != nil {
		t.Error("envelope rendered without Config.Envelopes")
	}

	grid := results[2]
	if grid.OK() {
		t.Fatal("grid-line should fail: it has no solids")
	}
	if errors.Cause(grid.Err) != corners.ErrNoSolids {
		t.Errorf("grid-line error = %v, want cause ErrNoSolids", grid.Err)
	}
	if grid.Analysis != nil || grid.Points() != nil {
		t.Error("failed result carries partial geometry")
	}
}

func TestRunNilScene(t *testing.T) {
	r, err := setout.New(setout.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := r.Run(nil); got != nil {
		t.Errorf("Run(nil) = %v, want nil", got)
	}
}

func TestRunDetailLevel(t *testing.T) {
	obj := brep.NewObject("column", makeBox(t, "fine", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 10}))
	obj.SetDetailGeometry(kernel.DetailCoarse, makeBox(t, "coarse", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 10}))
	s := scene.New()
	s.AddObject(obj)

	tests := []struct {
		level kernel.DetailLevel
		half  float64
	}{
		{kernel.DetailFine, 0.5},
		{kernel.DetailCoarse, 1},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			cfg := setout.DefaultConfig()
			cfg.DetailLevel = tt.level
			results, err := setout.Run(s, cfg)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !results[0].OK() {
				t.Fatalf("column error = %v", results[0].Err)
			}
			if got := results[0].Analysis.Box.HalfWidth(); math.Abs(got-tt.half) > epsilon {
				t.Errorf("HalfWidth() = %v, want %v", got, tt.half)
			}
		})
	}
}

func TestRunView(t *testing.T) {
	obj := brep.NewObject("pier", makeBox(t, "pier", mgl64.Vec3{0, 0, -10}, mgl64.Vec3{2, 2, 0}))
	obj.SetViewGeometry("plan", makeBox(t, "cap", mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{3, 3, 0}))
	s := scene.New()
	s.AddObject(obj)
	s.AddObject(brep.NewObject("slab", makeBox(t, "slab", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{4, 4, 1})))

	tests := []struct {
		view       string
		pierHalf   mgl64.Vec3
		pierCenter mgl64.Vec3
	}{
		{"", mgl64.Vec3{1, 1, 5}, mgl64.Vec3{1, 1, -5}},
		{"plan", mgl64.Vec3{2, 2, 0.5}, mgl64.Vec3{1, 1, -0.5}},
		{"section", mgl64.Vec3{1, 1, 5}, mgl64.Vec3{1, 1, -5}},
	}
	for _, tt := range tests {
		t.Run("view "+tt.view, func(t *testing.T) {
			cfg := setout.DefaultConfig()
			cfg.View = tt.view
			results, err := setout.Run(s, cfg)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			pier := results[0]
			if !pier.OK() {
				t.Fatalf("pier error = %v", pier.Err)
			}
			if !vecNear(pier.Analysis.Box.HalfExtents(), tt.pierHalf, epsilon) {
				t.Errorf("pier half extents = %v, want %v", pier.Analysis.Box.HalfExtents(), tt.pierHalf)
			}
			if !vecNear(pier.Analysis.Box.Center(), tt.pierCenter, epsilon) {
				t.Errorf("pier center = %v, want %v", pier.Analysis.Box.Center(), tt.pierCenter)
			}
			// Objects without view geometry are unaffected.
			if !vecNear(results[1].Analysis.Box.Center(), mgl64.Vec3{2, 2, 0.5}, epsilon) {
				t.Errorf("slab center = %v, want (2,2,0.5)", results[1].Analysis.Box.Center())
			}
		})
	}
}

func TestRunTolerance(t *testing.T) {
	// Two boxes whose corners differ by 0.001 merge at 1/16 ft but not at
	// 1/10000 ft.
	s := scene.New()
	s.AddObject(brep.NewObject("pair",
		makeBox(t, "a", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
		makeBox(t, "b", mgl64.Vec3{0.001, 0, 0}, mgl64.Vec3{1.001, 1, 1}),
	))

	tests := []struct {
		tol  float64
		want int
	}{
		{1.0 / 16, 8},
		{1.0 / 10000, 16},
	}
	for _, tt := range tests {
		cfg := setout.DefaultConfig()
		cfg.Tolerance = tt.tol
		results, err := setout.Run(s, cfg)
		if err != nil {
			t.Fatalf("Run(tol=%v) error = %v", tt.tol, err)
		}
		if got := results[0].Analysis.Corners.Len(); got != tt.want {
			t.Errorf("tol=%v: corners = %d, want %d", tt.tol, got, tt.want)
		}
	}
}

func TestRunEnvelopes(t *testing.T) {
	cfg := setout.DefaultConfig()
	cfg.Envelopes = true
	cfg.MeshCells = 16
	results, err := setout.Run(makeScene(t), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, res := range results[:2] {
		if !res.OK() {
			t.Fatalf("%s error = %v", res.Object, res.Err)
		}
		if res.Envelope == nil || res.Envelope.IsEmpty() {
			t.Fatalf("%s has no envelope mesh", res.Object)
		}
		if res.Envelope.ObjectName != res.Object {
			t.Errorf("envelope name = %q, want %q", res.Envelope.ObjectName, res.Object)
		}
	}
	if results[2].Envelope != nil {
		t.Error("failed object has an envelope")
	}
}

func TestSummarize(t *testing.T) {
	results, err := setout.Run(makeScene(t), setout.DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	sum := setout.Summarize(results)
	want := setout.Summary{Objects: 3, OK: 2, Failed: 1, Corners: 16}
	if sum != want {
		t.Errorf("Summarize() = %+v, want %+v", sum, want)
	}
}
