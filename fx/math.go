package fx

// This file holds the deterministic trigonometric and angle-wrap helpers.
// All of them are built from +, -, *, / on Fixed alone (no float64 math.Sin
// / math.Cos calls) so that the same bit pattern comes out on every
// platform that implements this package — a Fixed produced on an ARM
// client and one produced on an x86 server must compare bit-for-bit equal.

// Pi is a fixed-point approximation of the constant.
var Pi = FromFloat(3.14159265358979323846)

var (
	deg180 = FromInt(180)
	deg360 = FromInt(360)
	deg90  = FromInt(90)
)

// DegreesToRadians converts a Fixed angle in degrees to radians.
func DegreesToRadians(deg Fixed) Fixed {
	return deg.Div(deg180).Mul(Pi)
}

// RadiansToDegrees converts a Fixed angle in radians to degrees.
func RadiansToDegrees(rad Fixed) Fixed {
	return rad.Div(Pi).Mul(deg180)
}

// ClampAxis maps theta (degrees) into [0, 360).
func ClampAxis(theta Fixed) Fixed {
	angle := theta.Mod(deg360)
	if angle < 0 {
		angle += deg360
	}
	return angle
}

// NormalizeAxis maps theta (degrees) into (-180, 180].
func NormalizeAxis(theta Fixed) Fixed {
	angle := ClampAxis(theta)
	if angle > deg180 {
		angle -= deg360
	}
	return angle
}

// sinDegBhaskara applies Bhaskara I's rational sine approximation for an
// angle already reduced into [0, 180] degrees. Pure fixed-point arithmetic,
// so it is exactly reproducible across platforms.
func sinDegBhaskara(deg Fixed) Fixed {
	// sin(x deg) ~= 4*x*(180-x) / (40500 - x*(180-x)), 0 <= x <= 180
	span := deg.Mul(deg180 - deg)
	numerator := FromInt(4).Mul(span)
	denominator := FromInt(40500) - span
	if denominator == 0 {
		return One
	}
	return numerator.Div(denominator)
}

// SinDeg returns the deterministic fixed-point sine of an angle in degrees.
func SinDeg(deg Fixed) Fixed {
	angle := NormalizeAxis(deg) // (-180, 180]
	if angle >= 0 {
		return sinDegBhaskara(angle)
	}
	return -sinDegBhaskara(-angle)
}

// CosDeg returns the deterministic fixed-point cosine of an angle in degrees.
func CosDeg(deg Fixed) Fixed {
	return SinDeg(deg + deg90)
}

// TanDeg returns the deterministic fixed-point tangent of an angle in
// degrees. Division by zero (cos == 0) is not guarded, matching Fixed.Div's
// contract.
func TanDeg(deg Fixed) Fixed {
	return SinDeg(deg).Div(CosDeg(deg))
}

// SinRad, CosRad, TanRad are the radian-argument counterparts.
func SinRad(rad Fixed) Fixed { return SinDeg(RadiansToDegrees(rad)) }
func CosRad(rad Fixed) Fixed { return CosDeg(RadiansToDegrees(rad)) }
func TanRad(rad Fixed) Fixed { return TanDeg(RadiansToDegrees(rad)) }

// atanApproxRad returns a fast deterministic approximation of atan(x) in
// radians, valid for x in [-1, 1]. Minimax-style rational approximation,
// max absolute error ~0.0015 rad — sufficient for gameplay-facing angles
// and, crucially, identical on every platform since it's pure fixed-point.
func atanApproxRad(x Fixed) Fixed {
	absX := x.Abs()
	// atan(x) ~= (pi/4)*x - x*(|x|-1)*(0.2447 + 0.0663*|x|)
	piOver4 := Pi.Div(FromInt(4))
	term1 := piOver4.Mul(x)
	c1 := FromFloat(0.2447)
	c2 := FromFloat(0.0663)
	term2 := x.Mul(absX - One).Mul(c1 + c2.Mul(absX))
	return term1 - term2
}

// AtanRad returns atan2(y, x) in radians using the deterministic polynomial
// approximation above plus standard quadrant handling.
func AtanRad(y, x Fixed) Fixed {
	if x == 0 && y == 0 {
		return 0
	}

	if x.Abs() >= y.Abs() {
		if x == 0 {
			return 0
		}
		r := atanApproxRad(y.Div(x))
		if x < 0 {
			if y >= 0 {
				return r + Pi
			}
			return r - Pi
		}
		return r
	}

	r := atanApproxRad(x.Div(y))
	if y > 0 {
		return Pi.Div(FromInt(2)) - r
	}
	return -Pi.Div(FromInt(2)) - r
}

// AtanDeg returns atan2(y, x) in degrees.
func AtanDeg(y, x Fixed) Fixed {
	return RadiansToDegrees(AtanRad(y, x))
}

// AsinRad returns asin(x) in radians for x in [-1, 1].
func AsinRad(x Fixed) Fixed {
	x = x.Clamp(-One, One)
	return AtanRad(x, (One-x.Mul(x)).Sqrt())
}

// AsinDeg returns asin(x) in degrees.
func AsinDeg(x Fixed) Fixed { return RadiansToDegrees(AsinRad(x)) }

// AcosRad returns acos(x) in radians for x in [-1, 1].
func AcosRad(x Fixed) Fixed {
	x = x.Clamp(-One, One)
	return AtanRad((One-x.Mul(x)).Sqrt(), x)
}

// AcosDeg returns acos(x) in degrees.
func AcosDeg(x Fixed) Fixed { return RadiansToDegrees(AcosRad(x)) }
