package fx

// Q is a fixed-point quaternion (w, v). Rotations compose as
// yaw(Z) -> pitch(Y) -> roll(X), matching the axis convention used
// throughout this package (forward=+X, right=+Y, up=+Z).
type Q struct {
	W Fixed
	V V3
}

// QIdentity is the identity rotation.
var QIdentity = Q{W: One}

// FromAxisAngleRad builds a unit quaternion from a (presumed unit) axis
// and an angle in radians.
func FromAxisAngleRad(axis V3, angleRad Fixed) Q {
	half := angleRad.Div(FromInt(2))
	return Q{
		W: CosRad(half),
		V: axis.Scale(SinRad(half)),
	}
}

// FromAxisAngleDeg builds a unit quaternion from a (presumed unit) axis
// and an angle in degrees.
func FromAxisAngleDeg(axis V3, angleDeg Fixed) Q {
	return FromAxisAngleRad(axis, DegreesToRadians(angleDeg))
}

// Inverse returns the inverse of q, assuming q is a unit quaternion.
func (q Q) Inverse() Q {
	return Q{W: q.W, V: q.V.Neg()}
}

// Mul composes two rotations: the result rotates first by other, then by q
// (standard quaternion multiplication order, q * other).
func (q Q) Mul(other Q) Q {
	return Q{
		W: q.W.Mul(other.W) - q.V.Dot(other.V),
		V: other.V.Scale(q.W).Add(q.V.Scale(other.W)).Add(q.V.Cross(other.V)),
	}
}

// Rotate rotates v by this quaternion, assuming q is a unit quaternion.
// Uses the standard optimized qvq* expansion rather than building the
// inverse explicitly.
func (q Q) Rotate(v V3) V3 {
	vCrossV := q.V.Cross(v)
	two := FromInt(2)
	return v.Add(vCrossV.Scale(two.Mul(q.W))).Add(q.V.Cross(vCrossV).Scale(two))
}

// Equal reports exact bit equality.
func (q Q) Equal(other Q) bool {
	return q.W == other.W && q.V.Equal(other.V)
}

// Checksum folds q's components into the running CRC-32 accumulator.
func (q Q) Checksum(crc uint32) uint32 {
	crc = q.W.Checksum(crc)
	crc = q.V.Checksum(crc)
	return crc
}
