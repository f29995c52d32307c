package topo

// Mat4 is a row-major 4x4 transform, used to place mesh instances into a
// shared world frame. Plain array rather than a wrapped library type,
// since instances here carry their own world/local pair rather than
// relying on an external matrix library.
type Mat4 [16]float32

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate builds a pure translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Scale builds a pure non-uniform scale matrix.
func Scale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// TransformPoint applies the full affine transform, including translation.
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[1]*p[1] + m[2]*p[2] + m[3],
		m[4]*p[0] + m[5]*p[1] + m[6]*p[2] + m[7],
		m[8]*p[0] + m[9]*p[1] + m[10]*p[2] + m[11],
	}
}

// TransformDirection applies only the linear part, dropping translation.
func (m Mat4) TransformDirection(v [3]float32) [3]float32 {
	return [3]float32{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// Mul composes two transforms: (m.Mul(n)).TransformPoint(p) == m.TransformPoint(n.TransformPoint(p)).
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * n[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// RigidInverse inverts a transform composed only of rotation, uniform
// scale and translation — the only shapes instance placement needs.
// Instances carry both directions precomputed (see Instance) so this is
// only needed at scene-authoring time, never on the traversal hot path.
func (m Mat4) RigidInverse() Mat4 {
	// Transpose the 3x3 linear part and divide by its squared scale,
	// then solve for the translation that undoes m's own translation.
	sx := m[0]*m[0] + m[4]*m[4] + m[8]*m[8]
	sy := m[1]*m[1] + m[5]*m[5] + m[9]*m[9]
	sz := m[2]*m[2] + m[6]*m[6] + m[10]*m[10]

	inv := Mat4{
		m[0] / sx, m[4] / sy, m[8] / sz, 0,
		m[1] / sx, m[5] / sy, m[9] / sz, 0,
		m[2] / sx, m[6] / sy, m[10] / sz, 0,
		0, 0, 0, 1,
	}
	t := inv.TransformDirection([3]float32{m[3], m[7], m[11]})
	inv[3], inv[7], inv[11] = -t[0], -t[1], -t[2]
	return inv
}
