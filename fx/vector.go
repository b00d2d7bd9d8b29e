package fx

// V3 is a three-component fixed-point vector. Convention: forward=+X,
// right=+Y, up=+Z (matching the coordinate convention the rotation
// composition order in Q assumes).
type V3 struct {
	X, Y, Z Fixed
}

// Vec3 is a convenience constructor.
func Vec3(x, y, z Fixed) V3 {
	return V3{X: x, Y: y, Z: z}
}

var (
	V3Zero     = V3{}
	V3Forward  = V3{X: One}
	V3Right    = V3{Y: One}
	V3Up       = V3{Z: One}
	V3Backward = V3{X: -One}
	V3Left     = V3{Y: -One}
	V3Down     = V3{Z: -One}
)

// Add returns v + other.
func (v V3) Add(other V3) V3 {
	return V3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v V3) Sub(other V3) V3 {
	return V3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Neg returns -v.
func (v V3) Neg() V3 {
	return V3{-v.X, -v.Y, -v.Z}
}

// Scale returns v scaled by s.
func (v V3) Scale(s Fixed) V3 {
	return V3{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

// Div returns v with each component divided by s.
func (v V3) Div(s Fixed) V3 {
	return V3{v.X.Div(s), v.Y.Div(s), v.Z.Div(s)}
}

// Dot returns the dot product of v and other.
func (v V3) Dot(other V3) Fixed {
	return v.X.Mul(other.X) + v.Y.Mul(other.Y) + v.Z.Mul(other.Z)
}

// Cross returns the cross product of v and other, following the
// right-hand rule.
func (v V3) Cross(other V3) V3 {
	return V3{
		X: v.Y.Mul(other.Z) - v.Z.Mul(other.Y),
		Y: v.Z.Mul(other.X) - v.X.Mul(other.Z),
		Z: v.X.Mul(other.Y) - v.Y.Mul(other.X),
	}
}

// LengthSq returns the squared length of v.
func (v V3) LengthSq() Fixed {
	return v.Dot(v)
}

// Length returns the length of v.
func (v V3) Length() Fixed {
	return v.LengthSq().Sqrt()
}

// Normalize returns v scaled to unit length. A zero vector normalizes to
// zero rather than dividing by zero.
func (v V3) Normalize() V3 {
	length := v.Length()
	if length == 0 {
		return V3Zero
	}
	return v.Div(length)
}

// IsZero reports whether v is the exact zero vector.
func (v V3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Equal reports exact bit equality, the only equality this package uses.
func (v V3) Equal(other V3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Checksum folds v's components into the running CRC-32 accumulator.
func (v V3) Checksum(crc uint32) uint32 {
	crc = v.X.Checksum(crc)
	crc = v.Y.Checksum(crc)
	crc = v.Z.Checksum(crc)
	return crc
}
