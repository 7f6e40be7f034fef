package main

import (
	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/engine"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/setout"
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"
)

// colorPalette is a default palette used to assign distinct colors to
// object envelopes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates scene source and reports setout points per object.
type App struct {
	engine *engine.Engine
	cfg    setout.Config
}

// MeshData is the JSON-serializable envelope mesh.
type MeshData struct {
	Vertices   []float32 `json:"vertices"`
	Normals    []float32 `json:"normals"`
	Indices    []uint32  `json:"indices"`
	ObjectName string    `json:"objectName"`
	Color      string    `json:"color"`
}

// Mesh converts m back into a kernel mesh.
func (m MeshData) Mesh() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices:   m.Vertices,
		Normals:    m.Normals,
		Indices:    m.Indices,
		ObjectName: m.ObjectName,
	}
}

// EvalErrorData is a JSON-serializable error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
	Object  string `json:"object,omitempty"`
}

// CornerData is one deduplicated corner in the object's local frame.
type CornerData struct {
	Point [3]float64 `json:"point"`
	Count int        `json:"count"`
}

// ObjectReport is the outcome for one scene object. A failed object has
// Error set and no geometry.
type ObjectReport struct {
	Name         string       `json:"name"`
	Center       [3]float64   `json:"center"`
	HalfExtents  [3]float64   `json:"halfExtents"`
	Corners      []CornerData `json:"corners"`
	SetoutPoints [][3]float64 `json:"setoutPoints"`
	Error        string       `json:"error,omitempty"`
}

// OK reports whether the object was measured.
func (o ObjectReport) OK() bool {
	return o.Error == ""
}

// Report is the full result of evaluating a scene.
type Report struct {
	Objects   []ObjectReport  `json:"objects"`
	Envelopes []MeshData      `json:"envelopes"`
	Errors    []EvalErrorData `json:"errors"`
	Warnings  []EvalErrorData `json:"warnings"`
	Summary   setout.Summary  `json:"summary"`
}

// NewApp creates an App with the default configuration.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		cfg:    setout.DefaultConfig(),
	}
}

// NewAppWithConfig creates an App that resolves mesh files against baseDir.
func NewAppWithConfig(cfg setout.Config, baseDir string) *App {
	return &App{
		engine: engine.NewEngineWithBaseDir(baseDir),
		cfg:    cfg,
	}
}

// Evaluate takes scene source and returns the setout report.
func (a *App) Evaluate(source string) Report {
	report := Report{
		Objects:   []ObjectReport{},
		Envelopes: []MeshData{},
		Errors:    []EvalErrorData{},
		Warnings:  []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a validated scene.
	res, err := a.engine.EvaluateAll(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.WithError(err).Error("evaluate: fatal error")
		report.Errors = append(report.Errors, EvalErrorData{Message: err.Error()})
		return report
	}
	for _, w := range res.Warnings {
		report.Warnings = append(report.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
			Object:  w.Object,
		})
	}

	// Step 2: Convert eval errors to the report format.
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			report.Errors = append(report.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return report
	}

	// Step 3: Run corner extraction for every object.
	runner, err := setout.New(a.cfg)
	if err != nil {
		log.WithError(err).Error("evaluate: bad configuration")
		report.Errors = append(report.Errors, EvalErrorData{Message: err.Error()})
		return report
	}
	results := runner.Run(res.Scene)

	// Step 4: Convert results to the report format.
	for _, r := range results {
		report.Objects = append(report.Objects, objectReport(r))
		if r.Envelope != nil {
			color := colorPalette[len(report.Envelopes)%len(colorPalette)]
			report.Envelopes = append(report.Envelopes, MeshData{
				Vertices:   r.Envelope.Vertices,
				Normals:    r.Envelope.Normals,
				Indices:    r.Envelope.Indices,
				ObjectName: r.Envelope.ObjectName,
				Color:      color,
			})
		}
	}
	report.Summary = setout.Summarize(results)

	return report
}

func objectReport(r setout.Result) ObjectReport {
	or := ObjectReport{
		Name:         r.Object,
		Corners:      []CornerData{},
		SetoutPoints: [][3]float64{},
	}
	if !r.OK() {
		or.Error = r.Err.Error()
		return or
	}

	box := r.Analysis.Box
	or.Center = box.Center()
	or.HalfExtents = box.HalfExtents()
	r.Analysis.Corners.Each(func(p mgl64.Vec3, count int) {
		or.Corners = append(or.Corners, CornerData{Point: p, Count: count})
	})
	for _, p := range r.Points() {
		or.SetoutPoints = append(or.SetoutPoints, p)
	}
	return or
}

// formatPoint renders a report point with two decimals.
func formatPoint(p [3]float64) string {
	return corners.FormatPoint(mgl64.Vec3(p))
}
