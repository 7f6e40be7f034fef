package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ezhangle/SetoutPoints/pkg/geom"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/mesh"
	"github.com/ezhangle/SetoutPoints/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl64"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: rotate-z -> rotate_z
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point or vector.
type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X(), v.vec.Y(), v.vec.Z())
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a brep.Solid so it can be returned from the primitive
// builtins and consumed by defsymbol and defobject.
type sexpSolid struct {
	solid *brep.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(solid %q :faces %d)", s.solid.Name, s.solid.FaceCount())
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpTransform wraps a placement transform.
type sexpTransform struct {
	xf geom.Matrix
}

func (t *sexpTransform) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(transform %s)", t.xf)
}
func (t *sexpTransform) Type() *zygo.RegisteredType { return nil }

// sexpSymbol wraps a registered symbol.
type sexpSymbol struct {
	sym *brep.Symbol
}

func (s *sexpSymbol) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(symbol %q)", s.sym.Name)
}
func (s *sexpSymbol) Type() *zygo.RegisteredType { return nil }

// sexpInstance wraps a placed symbol.
type sexpInstance struct {
	inst *brep.Instance
}

func (i *sexpInstance) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(instance %q)", i.inst.Symbol().Name)
}
func (i *sexpInstance) Type() *zygo.RegisteredType { return nil }

// sexpObject wraps a scene object.
type sexpObject struct {
	obj *brep.Object
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", o.obj.Name())
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value - treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3 extracts a point from a sexpVec3.
func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toTransform extracts a transform from a sexpTransform.
func toTransform(s zygo.Sexp) (geom.Matrix, error) {
	if t, ok := s.(*sexpTransform); ok {
		return t.xf, nil
	}
	return geom.Matrix{}, fmt.Errorf("expected transform, got %T (%s)", s, s.SexpString(nil))
}

// toGeometry flattens a solid, an instance, or a list of them into
// geometry objects.
func toGeometry(s zygo.Sexp) ([]kernel.GeometryObject, error) {
	switch v := s.(type) {
	case *sexpSolid:
		return []kernel.GeometryObject{v.solid}, nil
	case *sexpInstance:
		return []kernel.GeometryObject{v.inst}, nil
	case *zygo.SexpPair, *zygo.SexpArray, *zygo.SexpSentinel:
		items, err := sexpListToSlice(s)
		if err != nil {
			return nil, err
		}
		var out []kernel.GeometryObject
		for _, item := range items {
			g, err := toGeometry(item)
			if err != nil {
				return nil, err
			}
			out = append(out, g...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected solid, instance or list, got %T (%s)", s, s.SexpString(nil))
}

// toDetailLevel converts a keyword name to a kernel.DetailLevel.
func toDetailLevel(name string) (kernel.DetailLevel, bool) {
	switch name {
	case "coarse":
		return kernel.DetailCoarse, true
	case "medium":
		return kernel.DetailMedium, true
	case "fine":
		return kernel.DetailFine, true
	}
	return kernel.DetailUndefined, false
}

// viewPrefix marks a defobject keyword that names a view, as in :view-plan.
const viewPrefix = "view-"

// toViewName extracts the view name from a keyword such as view-plan.
func toViewName(name string) (string, bool) {
	if !strings.HasPrefix(name, viewPrefix) || len(name) == len(viewPrefix) {
		return "", false
	}
	return strings.TrimPrefix(name, viewPrefix), true
}

// ---------------------------------------------------------------------------
// Anonymous names
// ---------------------------------------------------------------------------

// namer provides deterministic names for unnamed solids within one
// evaluation.
type namer struct {
	n int
}

func (nm *namer) next(prefix string) string {
	nm.n++
	return fmt.Sprintf("%s_anon_%d", prefix, nm.n)
}

// solidName returns the :name keyword if present, or an anonymous name.
func solidName(pa kwArgs, nm *namer, prefix string) (string, error) {
	v, ok := pa.kw["name"]
	if !ok {
		return nm.next(prefix), nil
	}
	name, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", prefix, err)
	}
	return name, nil
}

// kwFloat reads a required numeric keyword.
func kwFloat(pa kwArgs, builtin, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s requires :%s", builtin, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", builtin, key, err)
	}
	return f, nil
}

// kwVec3 reads a required vec3 keyword.
func kwVec3(pa kwArgs, builtin, key string) (mgl64.Vec3, error) {
	v, ok := pa.kw[key]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%s requires :%s", builtin, key)
	}
	vec, err := toVec3(v)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%s: %s: %w", builtin, key, err)
	}
	return vec, nil
}

// floatArgs converts every positional argument to a number.
func floatArgs(builtin string, args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", builtin, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene language builtins into a zygomys
// environment. The builtins populate s during evaluation; relative mesh
// paths are resolved against baseDir.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene, baseDir string) {
	nm := &namer{}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: mgl64.Vec3{x, y, z}}, nil
	})

	// -----------------------------------------------------------------------
	// (box :min (vec3 0 0 0) :max (vec3 2 4 6) :name "slab")
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		min, err := kwVec3(pa, "box", "min")
		if err != nil {
			return zygo.SexpNull, err
		}
		max, err := kwVec3(pa, "box", "max")
		if err != nil {
			return zygo.SexpNull, err
		}
		sname, err := solidName(pa, nm, "box")
		if err != nil {
			return zygo.SexpNull, err
		}

		solid, err := brep.Box(sname, min, max)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :center (vec3 0 0 0) :radius 0.5 :height 10)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := kwVec3(pa, "cylinder", "center")
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := kwFloat(pa, "cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := kwFloat(pa, "cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		sname, err := solidName(pa, nm, "cylinder")
		if err != nil {
			return zygo.SexpNull, err
		}

		solid, err := brep.Cylinder(sname, center, radius, height)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (prism :height 3 :points (list (vec3 0 0 0) (vec3 4 0 0) (vec3 0 3 0)))
	// -----------------------------------------------------------------------
	env.AddFunction("prism", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		height, err := kwFloat(pa, "prism", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		v, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("prism requires :points")
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: points: %w", err)
		}
		base := make([]mgl64.Vec3, 0, len(items))
		for i, item := range items {
			p, err := toVec3(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: point %d: %w", i+1, err)
			}
			base = append(base, p)
		}
		sname, err := solidName(pa, nm, "prism")
		if err != nil {
			return zygo.SexpNull, err
		}

		solid, err := brep.Prism(sname, base, height)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (disk :center (vec3 0 0 0) :radius 1)
	// -----------------------------------------------------------------------
	env.AddFunction("disk", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := kwVec3(pa, "disk", "center")
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := kwFloat(pa, "disk", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		sname, err := solidName(pa, nm, "disk")
		if err != nil {
			return zygo.SexpNull, err
		}

		solid, err := brep.Disk(sname, center, radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("disk: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (empty-solid)
	//
	// Registered as "empty_solid"; the preprocessor converts the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("empty_solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sname, err := solidName(parseArgs(args), nm, "empty-solid")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: brep.Empty(sname)}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh "column.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh requires a file path")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: path: %w", err)
		}
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}

		solid, err := mesh.Load(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		return &sexpSolid{solid: solid}, nil
	})

	// -----------------------------------------------------------------------
	// (translate 10 0 0) or (translate (vec3 10 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch len(args) {
		case 1:
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: %w", err)
			}
			return &sexpTransform{xf: geom.Translation(v.X(), v.Y(), v.Z())}, nil
		case 3:
			f, err := floatArgs("translate", args)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpTransform{xf: geom.Translation(f[0], f[1], f[2])}, nil
		}
		return zygo.SexpNull, fmt.Errorf("translate requires a vec3 or 3 numbers, got %d arguments", len(args))
	})

	// -----------------------------------------------------------------------
	// (rotate :z 90), (rotate-x 90), (rotate-y 90), (rotate-z 90)
	// -----------------------------------------------------------------------
	rotations := map[string]func(float64) geom.Matrix{
		"x": geom.RotationX,
		"y": geom.RotationY,
		"z": geom.RotationZ,
	}
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires an axis and an angle")
		}
		axis, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		rot, ok := rotations[axis]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("invalid axis %q, expected x, y, or z", axis)
		}
		deg, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		return &sexpTransform{xf: rot(deg)}, nil
	})
	for axis, rot := range rotations {
		builtin := "rotate_" + axis
		rot := rot
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires an angle in degrees", name)
			}
			deg, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: angle: %w", name, err)
			}
			return &sexpTransform{xf: rot(deg)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (scale 2) or (scale 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("scale requires 1 or 3 factors, got %d", len(args))
		}
		f, err := floatArgs("scale", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(f) == 1 {
			f = []float64{f[0], f[0], f[0]}
		}
		for i, v := range f {
			if v == 0 {
				return zygo.SexpNull, fmt.Errorf("scale: factor %d is zero", i+1)
			}
		}
		return &sexpTransform{xf: geom.Scaling(f[0], f[1], f[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (compose (rotate-z 90) (translate 10 0 0)); the first is applied first.
	// -----------------------------------------------------------------------
	env.AddFunction("compose", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ts := make([]kernel.Transform, 0, len(args))
		for i, a := range args {
			xf, err := toTransform(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("compose: argument %d: %w", i+1, err)
			}
			ts = append(ts, xf)
		}
		return &sexpTransform{xf: geom.Compose(ts...)}, nil
	})

	// -----------------------------------------------------------------------
	// (defsymbol "door" (box ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("defsymbol", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("defsymbol requires a name")
		}
		symName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsymbol: name: %w", err)
		}

		var geometry []kernel.GeometryObject
		for i := 1; i < len(args); i++ {
			g, err := toGeometry(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defsymbol: body %d: %w", i, err)
			}
			geometry = append(geometry, g...)
		}

		sym := brep.NewSymbol(symName, geometry...)
		s.AddSymbol(sym)
		return &sexpSymbol{sym: sym}, nil
	})

	// -----------------------------------------------------------------------
	// (instance "door" :transform (translate 10 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("instance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("instance requires a symbol")
		}

		var sym *brep.Symbol
		switch v := pa.positional[0].(type) {
		case *sexpSymbol:
			sym = v.sym
		case *zygo.SexpStr:
			sym = s.Symbol(v.S)
			if sym == nil {
				return zygo.SexpNull, fmt.Errorf("instance: no symbol named %q", v.S)
			}
		default:
			return zygo.SexpNull, fmt.Errorf("instance: expected symbol or symbol name, got %T", v)
		}

		xf := geom.Identity()
		if v, ok := pa.kw["transform"]; ok {
			t, err := toTransform(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("instance: transform: %w", err)
			}
			xf = t
		}
		return &sexpInstance{inst: brep.NewInstance(sym, xf)}, nil
	})

	// -----------------------------------------------------------------------
	// (defobject "wall" (box ...) (instance ...) :fine (list ...) :view-plan (box ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defobject", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("defobject requires a name")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defobject: name: %w", err)
		}

		var geometry []kernel.GeometryObject
		for i := 1; i < len(pa.positional); i++ {
			g, err := toGeometry(pa.positional[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defobject: body %d: %w", i, err)
			}
			geometry = append(geometry, g...)
		}

		obj := brep.NewObject(objName, geometry...)
		for key, v := range pa.kw {
			g, err := toGeometry(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defobject: %s: %w", key, err)
			}
			if view, ok := toViewName(key); ok {
				obj.SetViewGeometry(view, g...)
				continue
			}
			level, ok := toDetailLevel(key)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defobject: unknown keyword :%s", key)
			}
			obj.SetDetailGeometry(level, g...)
		}

		s.AddObject(obj)
		return &sexpObject{obj: obj}, nil
	})
}
