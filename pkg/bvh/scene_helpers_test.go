package bvh

import "github.com/lattice-rt/bvhcore/pkg/geom"

// cubeTriangles returns the 12 triangles (2 per face) of an axis-aligned
// cube centered at c with the given half-extent.
func cubeTriangles(c [3]float32, h float32, materialID int32) []geom.Triangle {
	v := func(x, y, z float32) [3]float32 {
		return [3]float32{c[0] + x*h, c[1] + y*h, c[2] + z*h}
	}

	type quad struct{ a, b, c, d [3]float32 }
	quads := []quad{
		{v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1)},     // +z
		{v(1, -1, -1), v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1)}, // -z
		{v(1, -1, 1), v(1, -1, -1), v(1, 1, -1), v(1, 1, 1)},     // +x
		{v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)}, // -x
		{v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1), v(-1, 1, -1)},     // +y
		{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)}, // -y
	}

	tris := make([]geom.Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris, geom.NewTriangle(q.a, q.b, q.c, materialID))
		tris = append(tris, geom.NewTriangle(q.a, q.c, q.d, materialID))
	}
	return tris
}
