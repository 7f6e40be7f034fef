package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/setout"
)

func nearPoint(a, b [3]float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// objectByName finds an object report or fails the test.
func objectByName(t *testing.T, report Report, name string) ObjectReport {
	t.Helper()
	for _, o := range report.Objects {
		if o.Name == name {
			return o
		}
	}
	t.Fatalf("no object %q in report", name)
	return ObjectReport{}
}

// TestE2ESiteExample exercises the full pipeline: source -> engine -> scene
// -> setout -> report, on the bundled example scene.
func TestE2ESiteExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/site.setout")
	if err != nil {
		t.Fatalf("failed to read site.setout: %v", err)
	}

	report := app.Evaluate(string(source))

	// No errors expected.
	if len(report.Errors) > 0 {
		for _, e := range report.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	if len(report.Objects) != 5 {
		t.Fatalf("expected 5 objects, got %d", len(report.Objects))
	}

	tests := []struct {
		name    string
		center  [3]float64
		half    [3]float64
		corners int
	}{
		{"slab", [3]float64{20, 15, 0.5}, [3]float64{20, 15, 0.5}, 8},
		{"core-wall", [3]float64{15, 10.5, 6}, [3]float64{5, 0.5, 5}, 8},
		{"door-1", [3]float64{13.5, 10.125, 4.5}, [3]float64{1.5, 0.125, 3.5}, 8},
		{"door-2", [3]float64{19.875, 15.5, 4.5}, [3]float64{1.5, 0.125, 3.5}, 8},
		{"column-a", [3]float64{30, 20, 6}, [3]float64{0.5, 0, 5}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := objectByName(t, report, tt.name)
			if !o.OK() {
				t.Fatalf("object error: %s", o.Error)
			}
			if !nearPoint(o.Center, tt.center) {
				t.Errorf("center = %v, want %v", o.Center, tt.center)
			}
			if !nearPoint(o.HalfExtents, tt.half) {
				t.Errorf("half extents = %v, want %v", o.HalfExtents, tt.half)
			}
			if len(o.Corners) != tt.corners {
				t.Errorf("corners = %d, want %d", len(o.Corners), tt.corners)
			}
			if len(o.SetoutPoints) != len(o.Corners) {
				t.Errorf("setout points = %d, corners = %d", len(o.SetoutPoints), len(o.Corners))
			}
			for _, c := range o.Corners {
				if c.Count != 3 {
					t.Errorf("corner %v count = %d, want 3", c.Point, c.Count)
				}
			}
		})
	}

	want := setout.Summary{Objects: 5, OK: 5, Corners: 36}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	report := app.Evaluate("")

	if len(report.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", report.Errors)
	}
	if len(report.Objects) != 0 {
		t.Errorf("expected 0 objects for empty source, got %d", len(report.Objects))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	report := app.Evaluate("(defobject \"test\"")

	if len(report.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(report.Objects) != 0 {
		t.Errorf("expected 0 objects on error, got %d", len(report.Objects))
	}
}

// TestE2ESingleBox ensures a minimal single-box source reports one object.
func TestE2ESingleBox(t *testing.T) {
	app := NewApp()
	source := `(defobject "pad" (box :min (vec3 0 0 0) :max (vec3 2 4 6)))`
	report := app.Evaluate(source)

	if len(report.Errors) > 0 {
		for _, e := range report.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(report.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(report.Objects))
	}
	o := report.Objects[0]
	if o.Name != "pad" {
		t.Errorf("expected object name 'pad', got %q", o.Name)
	}
	if !nearPoint(o.Center, [3]float64{1, 2, 3}) {
		t.Errorf("center = %v, want (1,2,3)", o.Center)
	}
}

// TestE2EDetailFlag checks that the configured detail level reaches the
// object geometry.
func TestE2EDetailFlag(t *testing.T) {
	source, err := os.ReadFile("examples/site.setout")
	if err != nil {
		t.Fatalf("failed to read site.setout: %v", err)
	}

	cfg := setout.DefaultConfig()
	cfg.DetailLevel = kernel.DetailCoarse
	report := NewAppWithConfig(cfg, "examples").Evaluate(string(source))
	if len(report.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}

	col := objectByName(t, report, "column-a")
	if len(col.Corners) != 8 {
		t.Errorf("coarse column corners = %d, want 8", len(col.Corners))
	}
	if !nearPoint(col.HalfExtents, [3]float64{0.5, 0.5, 5}) {
		t.Errorf("coarse column half extents = %v", col.HalfExtents)
	}
}

// TestE2EEnvelopes renders envelopes and writes them as STL files.
func TestE2EEnvelopes(t *testing.T) {
	cfg := setout.DefaultConfig()
	cfg.Envelopes = true
	cfg.MeshCells = 16
	app := NewAppWithConfig(cfg, "")
	report := app.Evaluate(`
(defobject "a" (box :min (vec3 0 0 0) :max (vec3 1 1 1)))
(defobject "b" (box :min (vec3 5 0 0) :max (vec3 6 2 1)))
`)
	if len(report.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if len(report.Envelopes) != 2 {
		t.Fatalf("expected 2 envelopes, got %d", len(report.Envelopes))
	}
	for i, env := range report.Envelopes {
		if env.Color != colorPalette[i] {
			t.Errorf("envelope %d color = %q, want %q", i, env.Color, colorPalette[i])
		}
		if len(env.Indices) == 0 {
			t.Errorf("envelope %q has no triangles", env.ObjectName)
		}
	}

	dir := filepath.Join(t.TempDir(), "envelopes")
	if err := saveEnvelopes(dir, report.Envelopes); err != nil {
		t.Fatalf("saveEnvelopes() error = %v", err)
	}
	for _, name := range []string{"a", "b"} {
		info, err := os.Stat(filepath.Join(dir, name+".stl"))
		if err != nil {
			t.Fatalf("stat %s.stl: %v", name, err)
		}
		// Binary STL: 80 byte header plus a 4 byte triangle count.
		if info.Size() <= 84 {
			t.Errorf("%s.stl has no triangles", name)
		}
	}
}

// TestReportJSON checks the serialized field names and that empty reports
// serialize arrays rather than null.
func TestReportJSON(t *testing.T) {
	data, err := json.Marshal(NewApp().Evaluate(""))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{`"objects":[]`, `"envelopes":[]`, `"errors":[]`, `"warnings":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}

	data, err = json.Marshal(NewApp().Evaluate(`(defobject "p" (box :min (vec3 0 0 0) :max (vec3 1 1 1)))`))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{`"name":"p"`, `"center":[0.5,0.5,0.5]`, `"halfExtents"`, `"setoutPoints"`, `"count":3`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("successful object serialized an error field: %s", data)
	}
}

func TestPrintReport(t *testing.T) {
	report := NewApp().Evaluate(`
(defobject "p" (box :min (vec3 0 0 0) :max (vec3 1 1 1)))
(defobject "q" (empty-solid))
`)
	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"p\n",
		"  center (0.50, 0.50, 0.50)\n",
		"  half   0.50 0.50 0.50\n",
		"  (0.00, 0.00, 0.00) x3\n",
		"warning: q: object has no solids with faces and no instances\n",
		"q: object \"q\": corners: element has no solids",
		"2 objects, 1 measured, 1 failed, 8 corners\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
