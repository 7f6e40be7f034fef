package setout

import (
	"math"

	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/pkg/errors"
)

// DefaultMeshCells is the marching cubes resolution used for envelopes.
const DefaultMeshCells = 64

// Config controls a setout run.
type Config struct {
	// Tolerance is the corner merge distance in scene units.
	Tolerance float64
	// DetailLevel selects which geometry objects produce.
	DetailLevel kernel.DetailLevel
	// View selects the geometry objects define for a named view. Objects
	// without geometry for it fall back to their detail geometry. Empty
	// means the model view.
	View string
	// Envelopes requests an sdfx envelope mesh per object.
	Envelopes bool
	// MeshCells is the envelope marching cubes resolution.
	MeshCells int
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Tolerance:   corners.DefaultTolerance,
		DetailLevel: kernel.DetailFine,
		MeshCells:   DefaultMeshCells,
	}
}

// Validate checks the configuration before use.
func (c Config) Validate() error {
	if c.Tolerance <= 0 || math.IsInf(c.Tolerance, 0) || math.IsNaN(c.Tolerance) {
		return errors.Wrapf(corners.ErrInvalidTolerance, "config: tolerance %v", c.Tolerance)
	}
	if c.DetailLevel < kernel.DetailUndefined || c.DetailLevel > kernel.DetailFine {
		return errors.Errorf("config: unknown detail level %d", c.DetailLevel)
	}
	if c.Envelopes && c.MeshCells < 2 {
		return errors.Errorf("config: envelope mesh cells %d, need at least 2", c.MeshCells)
	}
	return nil
}

// Options returns the geometry options for c.
func (c Config) Options() kernel.Options {
	return kernel.Options{
		DetailLevel: c.DetailLevel,
		View:        c.View,
	}
}
