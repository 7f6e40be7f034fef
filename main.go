// Command setoutpoints reads a scene description and prints the corner
// setout points and bounding box of every object in it.
//
// Usage:
//
//	setoutpoints [flags] <scene-file>
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ezhangle/SetoutPoints/pkg/corners"
	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/mesh"
	"github.com/ezhangle/SetoutPoints/pkg/setout"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/unixpickle/essentials"
)

func main() {
	cfg := setout.DefaultConfig()
	var detail string
	var asJSON bool
	var envelopeDir string
	var verbose bool
	flag.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "corner merge tolerance in scene units")
	flag.StringVar(&detail, "detail", cfg.DetailLevel.String(), "geometry detail level (coarse, medium, fine)")
	flag.StringVar(&cfg.View, "view", "", "named view to take geometry from")
	flag.BoolVar(&asJSON, "json", false, "print the report as JSON")
	flag.StringVar(&envelopeDir, "envelope", "", "write an STL envelope per object to this directory")
	flag.IntVar(&cfg.MeshCells, "cells", cfg.MeshCells, "envelope marching cubes resolution")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: setoutpoints [flags] <scene-file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetFormatter(&log.TextFormatter{ForceColors: true})
	log.SetOutput(colorable.NewColorableStderr())
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	level, err := kernel.ParseDetailLevel(detail)
	essentials.Must(err)
	cfg.DetailLevel = level
	cfg.Envelopes = envelopeDir != ""
	essentials.Must(cfg.Validate())

	path := flag.Arg(0)
	source, err := os.ReadFile(path)
	essentials.Must(errors.Wrap(err, "read scene"))

	app := NewAppWithConfig(cfg, filepath.Dir(path))
	report := app.Evaluate(string(source))

	if envelopeDir != "" {
		essentials.Must(saveEnvelopes(envelopeDir, report.Envelopes))
	}

	out := colorable.NewColorableStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		essentials.Must(enc.Encode(report))
	} else {
		printReport(out, report)
	}

	if len(report.Errors) > 0 || report.Summary.Failed > 0 {
		os.Exit(1)
	}
}

// saveEnvelopes writes one STL file per envelope into dir.
func saveEnvelopes(dir string, envelopes []MeshData) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create envelope directory")
	}
	for _, env := range envelopes {
		path := filepath.Join(dir, env.ObjectName+".stl")
		if err := mesh.SaveSTL(path, env.Mesh()); err != nil {
			return errors.Wrapf(err, "save envelope %q", env.ObjectName)
		}
		log.WithField("path", path).Debug("envelope written")
	}
	return nil
}

// printReport writes a plain text rendering of report.
func printReport(w io.Writer, report Report) {
	for _, e := range report.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
	}
	for _, wn := range report.Warnings {
		if wn.Object != "" {
			fmt.Fprintf(w, "warning: %s: %s\n", wn.Object, wn.Message)
		} else {
			fmt.Fprintf(w, "warning: %s\n", wn.Message)
		}
	}

	for _, o := range report.Objects {
		if !o.OK() {
			fmt.Fprintf(w, "%s: %s\n", o.Name, o.Error)
			continue
		}
		fmt.Fprintf(w, "%s\n", o.Name)
		fmt.Fprintf(w, "  center %s\n", formatPoint(o.Center))
		fmt.Fprintf(w, "  half   %s %s %s\n",
			corners.FormatLength(o.HalfExtents[0]),
			corners.FormatLength(o.HalfExtents[1]),
			corners.FormatLength(o.HalfExtents[2]))
		for i, p := range o.SetoutPoints {
			fmt.Fprintf(w, "  %s x%d\n", formatPoint(p), o.Corners[i].Count)
		}
	}

	s := report.Summary
	fmt.Fprintf(w, "%d objects, %d measured, %d failed, %d corners\n", s.Objects, s.OK, s.Failed, s.Corners)
}
