package simd

// Int is a packet of Width int32 lanes, used for material identifiers and
// other per-lane integer payloads carried alongside a ray packet.
type Int struct {
	v [Width]int32
}

// SplatInt returns a packet with every lane set to x.
func SplatInt(x int32) Int {
	var n Int
	for i := range n.v {
		n.v[i] = x
	}
	return n
}

// LoadInt builds a packet from a slice, zero-padding short input.
func LoadInt(src []int32) Int {
	var n Int
	c := len(src)
	if c > Width {
		c = Width
	}
	copy(n.v[:c], src[:c])
	return n
}

func (n Int) Lane(i int) int32 { return n.v[i] }

func (n Int) WithLane(i int, x int32) Int {
	n.v[i] = x
	return n
}

func (a Int) Add(b Int) Int { return applyInt2(a, b, func(x, y int32) int32 { return x + y }) }
func (a Int) Sub(b Int) Int { return applyInt2(a, b, func(x, y int32) int32 { return x - y }) }
func (a Int) And(b Int) Int { return applyInt2(a, b, func(x, y int32) int32 { return x & y }) }
func (a Int) Or(b Int) Int  { return applyInt2(a, b, func(x, y int32) int32 { return x | y }) }
func (a Int) Xor(b Int) Int { return applyInt2(a, b, func(x, y int32) int32 { return x ^ y }) }
func (a Int) AndNot(b Int) Int {
	return applyInt2(a, b, func(x, y int32) int32 { return x &^ y })
}

func (a Int) Equal(b Int) Mask {
	var bits uint8
	for i := range a.v {
		if a.v[i] == b.v[i] {
			bits |= 1 << uint(i)
		}
	}
	return MaskFromBits(bits)
}

// BlendInt selects, per lane, fromTrue[i] when mask lane i is active,
// otherwise fromFalse[i].
func BlendInt(fromFalse, fromTrue Int, mask Mask) Int {
	var out Int
	for i := range out.v {
		if mask.Lane(i) {
			out.v[i] = fromTrue.v[i]
		} else {
			out.v[i] = fromFalse.v[i]
		}
	}
	return out
}

func applyInt2(a, b Int, f func(x, y int32) int32) Int {
	var out Int
	for i := range out.v {
		out.v[i] = f(a.v[i], b.v[i])
	}
	return out
}
