// Package mesh exposes triangle meshes as boundary-represented solids.
//
// Meshes are read with github.com/unixpickle/model3d. Every triangle becomes
// one planar face bounded by a single loop of three line edges, and edges
// shared by two triangles are created once so each face sees them in its
// own direction. A corner of a mesh solid is therefore every mesh vertex,
// counted once per triangle that touches it.
package mesh

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezhangle/SetoutPoints/pkg/kernel"
	"github.com/ezhangle/SetoutPoints/pkg/kernel/brep"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// Format is a mesh file format.
type Format int

const (
	FormatSTL Format = iota
	FormatOFF
)

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "stl"
	case FormatOFF:
		return "off"
	default:
		return "unknown"
	}
}

// ErrOpenMesh is returned when a mesh has edges that do not join exactly two
// triangles.
var ErrOpenMesh = errors.New("mesh: not a closed manifold")

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL, nil
	case ".off":
		return FormatOFF, nil
	}
	return 0, errors.Errorf("mesh: unsupported file extension %q", filepath.Ext(path))
}

// Load reads the mesh at path and converts it to a solid named after the
// file. The mesh must be closed.
func Load(path string) (*brep.Solid, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open mesh")
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Read(name, f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

// Read decodes a mesh in the given format and converts it to a solid.
func Read(name string, r io.Reader, format Format) (*brep.Solid, error) {
	var (
		tris []*model3d.Triangle
		err  error
	)
	switch format {
	case FormatSTL:
		tris, err = model3d.ReadSTL(r)
	case FormatOFF:
		tris, err = model3d.ReadOFF(r)
	default:
		return nil, errors.Errorf("mesh: unknown format %d", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", format)
	}

	m := model3d.NewMeshTriangles(tris)
	if m.NeedsRepair() {
		return nil, ErrOpenMesh
	}
	return FromMesh(name, m)
}

// FromMesh converts m to a solid. Vertices are shared by exact coordinate
// equality. An empty mesh yields a solid with no faces.
func FromMesh(name string, m *model3d.Mesh) (*brep.Solid, error) {
	return FromTriangles(name, m.TriangleSlice())
}

// FromTriangles converts a triangle soup to a solid.
func FromTriangles(name string, tris []*model3d.Triangle) (*brep.Solid, error) {
	if len(tris) == 0 {
		return brep.Empty(name), nil
	}

	index := make(map[model3d.Coord3D]int)
	var verts []mgl64.Vec3
	faces := make([][]int, 0, len(tris))
	for _, t := range tris {
		loop := make([]int, 3)
		for i, c := range t {
			id, ok := index[c]
			if !ok {
				id = len(verts)
				index[c] = id
				verts = append(verts, toVec3(c))
			}
			loop[i] = id
		}
		faces = append(faces, loop)
	}

	s, err := brep.Polyhedron(name, verts, faces)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %q", name)
	}
	return s, nil
}

// Rect returns the closed triangle mesh of an axis-aligned box.
func Rect(min, max mgl64.Vec3) *model3d.Mesh {
	return model3d.NewMeshRect(toCoord(min), toCoord(max))
}

// SaveSTL writes a rendered mesh to path as binary STL.
func SaveSTL(path string, m *kernel.Mesh) error {
	if m == nil || m.IsEmpty() {
		return errors.New("mesh: nothing to save")
	}
	tris := make([]*model3d.Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var t model3d.Triangle
		for j := 0; j < 3; j++ {
			v := int(m.Indices[i+j]) * 3
			if v+2 >= len(m.Vertices) {
				return errors.Errorf("mesh: index %d out of range", m.Indices[i+j])
			}
			t[j] = model3d.XYZ(float64(m.Vertices[v]), float64(m.Vertices[v+1]), float64(m.Vertices[v+2]))
		}
		tris = append(tris, &t)
	}
	if err := model3d.NewMeshTriangles(tris).SaveGroupedSTL(path); err != nil {
		return errors.Wrap(err, "save stl")
	}
	return nil
}

func toVec3(c model3d.Coord3D) mgl64.Vec3 {
	return mgl64.Vec3{c.X, c.Y, c.Z}
}

func toCoord(v mgl64.Vec3) model3d.Coord3D {
	return model3d.XYZ(v.X(), v.Y(), v.Z())
}
