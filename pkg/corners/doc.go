// Package corners derives setting-out corner points and a bounding box from
// the solids of a modeled object.
//
// The pipeline has three pure passes over host geometry:
//
//	solids, xf, err := corners.ResolveSolids(elem, opts)
//	vc, err := corners.ExtractCorners(solids, cmp)
//	box, err := corners.ComputeBoundingBox(vc, xf)
//
// Analyze runs all three. Nothing here retains state between calls, and
// errors from the host are returned unmodified.
package corners
