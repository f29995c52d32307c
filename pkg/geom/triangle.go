package geom

import "math"

// Triangle carries three vertex positions, a precomputed AABB and an
// opaque material identifier. It is immutable once built: the
// importer constructs it, the builder and traversal only read it.
type Triangle struct {
	P0, P1, P2 Vec3
	Normal0    Vec3
	Normal1    Vec3
	Normal2    Vec3
	UV0        [2]float32
	UV1        [2]float32
	UV2        [2]float32
	BBox       AABB
	MaterialID int32
}

// NewTriangle builds a Triangle and its cached AABB from three positions.
// Normals default to the flat face normal; callers with shading normals
// should set Normal0..2 afterwards.
func NewTriangle(p0, p1, p2 Vec3, materialID int32) Triangle {
	t := Triangle{P0: p0, P1: p1, P2: p2, MaterialID: materialID}
	t.BBox = FromPoints(p0, p1, p2).Pad()
	n := faceNormal(p0, p1, p2)
	t.Normal0, t.Normal1, t.Normal2 = n, n, n
	return t
}

// Centroid returns the triangle's centroid along axis d.
func (t Triangle) Centroid(d int) float32 {
	return (t.P0[d] + t.P1[d] + t.P2[d]) / 3
}

func faceNormal(p0, p1, p2 Vec3) Vec3 {
	e1 := sub3(p1, p0)
	e2 := sub3(p2, p0)
	n := cross3(e1, e2)
	return normalize3(n)
}

func sub3(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize3(v Vec3) Vec3 {
	lenSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if lenSq < 1e-20 {
		return Vec3{}
	}
	inv := float32(1) / float32(math.Sqrt(float64(lenSq)))
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}
