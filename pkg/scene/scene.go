package scene

import (
	"fmt"

	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
)

// DefaultUnits is the base length unit of scene coordinates.
const DefaultUnits = "ft"

// Defaults contains scene-wide settings.
type Defaults struct {
	Tolerance float64 `json:"tolerance"` // corner merge tolerance in Units
	Units     string  `json:"units"`
}

// Scene is the ordered set of objects and the symbols they place.
type Scene struct {
	Objects   []*brep.Object
	Symbols   map[string]*brep.Symbol
	NameIndex map[string]int
	Defaults  Defaults
	Version   uint64
}

// New creates an empty Scene with default settings.
func New() *Scene {
	return &Scene{
		Symbols:   make(map[string]*brep.Symbol),
		NameIndex: make(map[string]int),
		Defaults: Defaults{
			Tolerance: corners.DefaultTolerance,
			Units:     DefaultUnits,
		},
	}
}

// AddObject appends an object. It does not check for duplicate names; the
// name index points at the most recent object with a given name.
func (s *Scene) AddObject(o *brep.Object) {
	s.Objects = append(s.Objects, o)
	if o.Name() != "" {
		s.NameIndex[o.Name()] = len(s.Objects) - 1
	}
}

// AddSymbol registers a symbol, replacing any symbol of the same name.
func (s *Scene) AddSymbol(sym *brep.Symbol) {
	s.Symbols[sym.Name] = sym
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *brep.Object {
	i, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Objects[i]
}

// MustLookup returns the object with the given name, or panics.
func (s *Scene) MustLookup(name string) *brep.Object {
	o := s.Lookup(name)
	if o == nil {
		panic(fmt.Sprintf("scene: no object named %q", name))
	}
	return o
}

// Symbol returns the symbol with the given name, or nil.
func (s *Scene) Symbol(name string) *brep.Symbol {
	return s.Symbols[name]
}

// Names returns object names in definition order.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.Objects))
	for _, o := range s.Objects {
		names = append(names, o.Name())
	}
	return names
}

// ObjectCount returns the number of objects.
func (s *Scene) ObjectCount() int {
	return len(s.Objects)
}

// SymbolCount returns the number of symbols.
func (s *Scene) SymbolCount() int {
	return len(s.Symbols)
}
