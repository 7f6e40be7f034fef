package scene

import (
	"fmt"
	"sort"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
)

// ValidationSeverity indicates whether a validation finding blocks analysis
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks analysis
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Object   string             // which object has the problem (empty if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %q: %s", e.Severity, e.Object, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Object  string
	Message string
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks on a scene and returns every finding.
// It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateSymbols(s)...)
	errs = append(errs, validateGeometry(s)...)
	return errs
}

// ValidateAll runs Validate and separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				Object:  e.Object,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	return result
}

// validateNames checks that every object has a name and that names are
// unique.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]int)
	for i, o := range s.Objects {
		if o.Name() == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("object %d has no name", i),
				Severity: SeverityError,
			})
			continue
		}
		seen[o.Name()]++
	}

	names := make([]string, 0, len(seen))
	for name, n := range seen {
		if n > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		errs = append(errs, ValidationError{
			Object:   name,
			Message:  fmt.Sprintf("name is used by %d objects", seen[name]),
			Severity: SeverityError,
		})
	}

	return errs
}

// validateSymbols checks symbol registration and warns about geometry the
// resolver will not follow.
func validateSymbols(s *Scene) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(s.Symbols))
	for name := range s.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	// A symbol is placed if any detail level or view of any object places
	// it. Geometry errors are reported by validateGeometry.
	used := make(map[*brep.Symbol]bool)
	for _, o := range s.Objects {
		for _, opts := range o.Variants() {
			geom, err := o.Geometry(opts)
			if err != nil {
				continue
			}
			for _, g := range geom {
				if inst, ok := g.(*brep.Instance); ok {
					used[inst.Symbol()] = true
				}
			}
		}
	}

	for _, name := range names {
		sym := s.Symbols[name]
		if sym.Name != name {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("symbol registered as %q is named %q", name, sym.Name),
				Severity: SeverityError,
			})
		}
		for _, g := range sym.Geometry() {
			if _, ok := g.(kernel.Instance); ok {
				errs = append(errs, ValidationError{
					Message:  fmt.Sprintf("symbol %q places another symbol; nested instances are ignored", name),
					Severity: SeverityWarning,
				})
				break
			}
		}
		if !used[sym] {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("symbol %q is never placed", name),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateGeometry checks that every object produces something to measure
// and that its instances place registered symbols. Every detail level and
// view the object defines is checked.
func validateGeometry(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, o := range s.Objects {
		empty, measurable, failed, unregistered := true, false, false, false
		for _, opts := range o.Variants() {
			geom, err := o.Geometry(opts)
			if err != nil {
				failed = true
				errs = append(errs, ValidationError{
					Object:   o.Name(),
					Message:  fmt.Sprintf("%s geometry unavailable: %v", variantName(opts), err),
					Severity: SeverityError,
				})
				continue
			}
			if len(geom) > 0 {
				empty = false
			}
			for _, g := range geom {
				switch v := g.(type) {
				case *brep.Solid:
					if v.FaceCount() > 0 {
						measurable = true
					}
				case *brep.Instance:
					measurable = true
					sym := v.Symbol()
					if (sym == nil || s.Symbols[sym.Name] != sym) && !unregistered {
						unregistered = true
						errs = append(errs, ValidationError{
							Object:   o.Name(),
							Message:  "instance places a symbol that is not registered in the scene",
							Severity: SeverityError,
						})
					}
				}
			}
		}

		switch {
		case failed:
		case empty:
			errs = append(errs, ValidationError{
				Object:   o.Name(),
				Message:  "object has no geometry",
				Severity: SeverityWarning,
			})
		case !measurable:
			errs = append(errs, ValidationError{
				Object:   o.Name(),
				Message:  "object has no solids with faces and no instances",
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// variantName describes the geometry selected by opts.
func variantName(opts kernel.Options) string {
	switch {
	case opts.View != "":
		return fmt.Sprintf("view %q", opts.View)
	case opts.DetailLevel != kernel.DetailUndefined:
		return opts.DetailLevel.String() + " detail"
	default:
		return "default"
	}
}
