// Package setout walks a scene and runs corner extraction and bounding box
// computation for every object. One result is produced per object.
package setout

import (
	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/sdfx"
	"github.com/ezhangle/SetoutPoints/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Result is the outcome for one object. Exactly one of Analysis and Err is
// set; a failed object carries no partial geometry.
type Result struct {
	Object   string
	Analysis *corners.Analysis
	Envelope *kernel.Mesh
	Err      error
}

// OK reports whether the object was analyzed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Points returns the setout points of a successful result.
func (r Result) Points() []mgl64.Vec3 {
	if r.Analysis == nil {
		return nil
	}
	return r.Analysis.SetoutPoints()
}

// Runner analyzes scenes with a fixed configuration.
type Runner struct {
	cfg      Config
	cmp      corners.Comparer
	renderer *sdfx.Renderer
	log      *log.Entry
}

// New validates cfg and returns a Runner.
func New(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cmp, err := corners.NewComparer(cfg.Tolerance)
	if err != nil {
		return nil, errors.Wrap(err, "setout")
	}

	r := &Runner{
		cfg: cfg,
		cmp: cmp,
		log: log.WithField("component", "setout"),
	}
	if cfg.Envelopes {
		r.renderer, err = sdfx.NewWithCells(cfg.MeshCells)
		if err != nil {
			return nil, errors.Wrap(err, "setout")
		}
	}
	return r, nil
}

// Config returns the runner's configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run analyzes every object of s in definition order. Failures are
// recorded per object and do not stop the run. The runner never mutates
// the scene.
func (r *Runner) Run(s *scene.Scene) []Result {
	if s == nil {
		return nil
	}

	results := make([]Result, 0, s.ObjectCount())
	for _, o := range s.Objects {
		res := r.analyzeObject(o)
		if res.Err != nil {
			r.log.WithField("object", res.Object).WithError(res.Err).Warn("object skipped")
		} else {
			r.log.WithFields(log.Fields{
				"object":  res.Object,
				"solids":  len(res.Analysis.Solids),
				"corners": res.Analysis.Corners.Len(),
			}).Debug("object analyzed")
		}
		results = append(results, res)
	}
	return results
}

// analyzeObject runs the pipeline on one element.
func (r *Runner) analyzeObject(e kernel.Element) Result {
	res := Result{Object: e.Name()}

	a, err := corners.Analyze(e, r.cfg.Options(), r.cmp)
	if err != nil {
		res.Err = errors.Wrapf(err, "object %q", e.Name())
		return res
	}

	if r.renderer != nil {
		env, err := r.renderer.Envelope(e.Name(), a.Box, a.Transform)
		if err != nil {
			res.Err = errors.Wrapf(err, "object %q envelope", e.Name())
			return res
		}
		m, err := r.renderer.ToMesh(env)
		if err != nil {
			res.Err = errors.Wrapf(err, "object %q envelope", e.Name())
			return res
		}
		res.Envelope = m
	}

	res.Analysis = a
	return res
}

// Run analyzes s with cfg.
func Run(s *scene.Scene, cfg Config) ([]Result, error) {
	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return r.Run(s), nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Objects int
	OK      int
	Failed  int
	Corners int
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	var sum Summary
	for _, res := range results {
		sum.Objects++
		if res.OK() {
			sum.OK++
			sum.Corners += res.Analysis.Corners.Len()
		} else {
			sum.Failed++
		}
	}
	return sum
}
