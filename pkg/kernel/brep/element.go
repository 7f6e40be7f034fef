package brep

import (
	"sort"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/pkg/errors"
)

// ErrNoSymbol is returned by an instance that places no symbol.
var ErrNoSymbol = errors.New("brep: instance has no symbol")

// Compile-time interface checks.
var (
	_ kernel.Element  = (*Object)(nil)
	_ kernel.Instance = (*Instance)(nil)
)

// Symbol is a shared geometry definition placed by instances.
type Symbol struct {
	Name     string
	geometry []kernel.GeometryObject
}

// NewSymbol creates a symbol from geometry in its own coordinate frame.
func NewSymbol(name string, geometry ...kernel.GeometryObject) *Symbol {
	return &Symbol{Name: name, geometry: geometry}
}

// Geometry returns a copy of the symbol's geometry.
func (s *Symbol) Geometry() []kernel.GeometryObject {
	out := make([]kernel.GeometryObject, len(s.geometry))
	copy(out, s.geometry)
	return out
}

// Instance places a symbol with a transform.
type Instance struct {
	symbol *Symbol
	xf     kernel.Transform
}

// NewInstance places sym with xf.
func NewInstance(sym *Symbol, xf kernel.Transform) *Instance {
	return &Instance{symbol: sym, xf: xf}
}

// Symbol returns the placed symbol.
func (i *Instance) Symbol() *Symbol {
	return i.symbol
}

// SymbolGeometry returns the symbol's geometry in the symbol frame.
func (i *Instance) SymbolGeometry() ([]kernel.GeometryObject, error) {
	if i.symbol == nil {
		return nil, ErrNoSymbol
	}
	return i.symbol.Geometry(), nil
}

// Transform returns the placement transform.
func (i *Instance) Transform() kernel.Transform {
	return i.xf
}

// Object is a modeled element. It carries default geometry and, optionally,
// replacement geometry for specific detail levels and named views.
type Object struct {
	name     string
	geometry []kernel.GeometryObject
	byDetail map[kernel.DetailLevel][]kernel.GeometryObject
	byView   map[string][]kernel.GeometryObject
}

// NewObject creates an object with default geometry.
func NewObject(name string, geometry ...kernel.GeometryObject) *Object {
	return &Object{name: name, geometry: geometry}
}

// Name returns the object's name.
func (o *Object) Name() string {
	return o.name
}

// SetDetailGeometry replaces the geometry produced at level.
func (o *Object) SetDetailGeometry(level kernel.DetailLevel, geometry ...kernel.GeometryObject) {
	if o.byDetail == nil {
		o.byDetail = make(map[kernel.DetailLevel][]kernel.GeometryObject)
	}
	o.byDetail[level] = geometry
}

// SetViewGeometry replaces the geometry produced for the named view. View
// geometry takes precedence over detail geometry.
func (o *Object) SetViewGeometry(view string, geometry ...kernel.GeometryObject) {
	if o.byView == nil {
		o.byView = make(map[string][]kernel.GeometryObject)
	}
	o.byView[view] = geometry
}

// Geometry returns the geometry for the requested view or detail level,
// falling back to the default geometry.
func (o *Object) Geometry(opts kernel.Options) ([]kernel.GeometryObject, error) {
	src := o.geometry
	if g, ok := o.byView[opts.View]; ok && opts.View != "" {
		src = g
	} else if g, ok := o.byDetail[opts.DetailLevel]; ok {
		src = g
	}
	out := make([]kernel.GeometryObject, len(src))
	copy(out, src)
	return out, nil
}

// Variants returns the options selecting each geometry the object defines:
// the default first, then detail levels in increasing order, then views by
// name.
func (o *Object) Variants() []kernel.Options {
	out := []kernel.Options{{}}
	for level := kernel.DetailCoarse; level <= kernel.DetailFine; level++ {
		if _, ok := o.byDetail[level]; ok {
			out = append(out, kernel.Options{DetailLevel: level})
		}
	}
	views := make([]string, 0, len(o.byView))
	for v := range o.byView {
		views = append(views, v)
	}
	sort.Strings(views)
	for _, v := range views {
		out = append(out, kernel.Options{View: v})
	}
	return out
}
