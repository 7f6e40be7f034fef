package scene

import (
	"strings"
	"testing"

	"github.com/ezhangle/SetoutPoints/pkg/geom"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidSite creates a scene with one direct object and one placed
// symbol, with no findings.
func buildValidSite(t *testing.T) *Scene {
	s := New()
	door := brep.NewSymbol("door", mustBox(t, "leaf"))
	s.AddSymbol(door)
	s.AddObject(brep.NewObject("wall", mustBox(t, "w")))
	s.AddObject(brep.NewObject("door-1", brep.NewInstance(door, geom.Translation(3, 0, 0))))
	return s
}

func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidateValidSite(t *testing.T) {
	if errs := Validate(buildValidSite(t)); len(errs) != 0 {
		t.Errorf("expected no findings, got %v", errs)
	}
}

func TestValidateEmptyScene(t *testing.T) {
	if errs := Validate(New()); len(errs) != 0 {
		t.Errorf("empty scene should be valid, got %v", errs)
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) *Scene
		wantError string
		wantWarn  string
	}{
		{
			name: "duplicate names",
			build: func(t *testing.T) *Scene {
				s := New()
				s.AddObject(brep.NewObject("wall", mustBox(t, "a")))
				s.AddObject(brep.NewObject("wall", mustBox(t, "b")))
				return s
			},
			wantError: "used by 2 objects",
		},
		{
			name: "missing name",
			build: func(t *testing.T) *Scene {
				s := New()
				s.AddObject(brep.NewObject("", mustBox(t, "a")))
				return s
			},
			wantError: "has no name",
		},
		{
			name: "unregistered symbol",
			build: func(t *testing.T) *Scene {
				s := New()
				stray := brep.NewSymbol("stray", mustBox(t, "a"))
				s.AddObject(brep.NewObject("o", brep.NewInstance(stray, nil)))
				return s
			},
			wantError: "not registered",
		},
		{
			name: "no geometry",
			build: func(t *testing.T) *Scene {
				s := New()
				s.AddObject(brep.NewObject("ghost"))
				return s
			},
			wantWarn: "no geometry",
		},
		{
			name: "only empty solids",
			build: func(t *testing.T) *Scene {
				s := New()
				s.AddObject(brep.NewObject("void", brep.Empty("e")))
				return s
			},
			wantWarn: "no solids with faces",
		},
		{
			name: "unused symbol",
			build: func(t *testing.T) *Scene {
				s := buildValidSite(t)
				s.AddSymbol(brep.NewSymbol("window", mustBox(t, "pane")))
				return s
			},
			wantWarn: `"window" is never placed`,
		},
		{
			name: "nested instance",
			build: func(t *testing.T) *Scene {
				s := New()
				inner := brep.NewSymbol("inner", mustBox(t, "a"))
				outer := brep.NewSymbol("outer", brep.NewInstance(inner, nil))
				s.AddSymbol(inner)
				s.AddSymbol(outer)
				s.AddObject(brep.NewObject("o", brep.NewInstance(outer, nil)))
				return s
			},
			wantWarn: "nested instances are ignored",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.build(t))
			if tt.wantError != "" && !hasError(errs, tt.wantError) {
				t.Errorf("expected error containing %q, got %v", tt.wantError, errs)
			}
			if tt.wantWarn != "" && !hasWarning(errs, tt.wantWarn) {
				t.Errorf("expected warning containing %q, got %v", tt.wantWarn, errs)
			}
		})
	}
}

func TestValidateChecksEveryVariant(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T, door *brep.Symbol) *brep.Object
	}{
		{
			name: "fine detail only",
			build: func(t *testing.T, door *brep.Symbol) *brep.Object {
				o := brep.NewObject("stair")
				o.SetDetailGeometry(kernel.DetailFine, mustBox(t, "tread"), brep.NewInstance(door, nil))
				return o
			},
		},
		{
			name: "view only",
			build: func(t *testing.T, door *brep.Symbol) *brep.Object {
				o := brep.NewObject("opening")
				o.SetViewGeometry("plan", brep.NewInstance(door, geom.Translation(1, 0, 0)))
				return o
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			door := brep.NewSymbol("door", mustBox(t, "leaf"))
			s.AddSymbol(door)
			s.AddObject(tt.build(t, door))

			if errs := Validate(s); len(errs) != 0 {
				t.Errorf("expected no findings, got %v", errs)
			}
		})
	}
}

func TestValidateUnregisteredSymbolInVariant(t *testing.T) {
	s := New()
	stray := brep.NewSymbol("stray", mustBox(t, "a"))
	o := brep.NewObject("o", mustBox(t, "b"))
	o.SetDetailGeometry(kernel.DetailCoarse, brep.NewInstance(stray, nil))
	o.SetViewGeometry("plan", brep.NewInstance(stray, nil))
	s.AddObject(o)

	errs := Validate(s)
	if len(errs) != 1 || !hasError(errs, "not registered") {
		t.Errorf("expected one unregistered-symbol error, got %v", errs)
	}
}

func TestValidateAllSeparatesSeverities(t *testing.T) {
	s := buildValidSite(t)
	s.AddObject(brep.NewObject("wall", mustBox(t, "dup")))
	s.AddObject(brep.NewObject("ghost"))

	result := ValidateAll(s)
	if result.OK() {
		t.Error("duplicate name should block analysis")
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors = %v, want 1", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Object != "ghost" {
		t.Errorf("warnings = %v, want one for ghost", result.Warnings)
	}
}

func TestValidationErrorString(t *testing.T) {
	tests := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{Message: "m", Severity: SeverityError}, "[error] m"},
		{ValidationError{Object: "wall", Message: "m", Severity: SeverityWarning}, `[warning] object "wall": m`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
	if got := ValidationSeverity(7).String(); got != "ValidationSeverity(7)" {
		t.Errorf("String() = %q", got)
	}
}
