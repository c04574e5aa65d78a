package rotation

import (
	"fmt"
	"math"
)

// EulerAngles holds aerospace roll, pitch and yaw in radians at positions
// 0, 1 and 2. No wrapping or gimbal-lock guard is applied.
type EulerAngles struct {
	v [3]float64
}

// NewEulerAngles builds angles from a radian 3-vector.
func NewEulerAngles(v []float64) (EulerAngles, error) {
	if len(v) != 3 {
		return EulerAngles{}, lengthError("NewEulerAngles", 3, len(v))
	}
	var e EulerAngles
	copy(e.v[:], v)
	return e, nil
}

// EulerFromAngles converts from unit to radians before storing.
func EulerFromAngles(roll, pitch, yaw float64, unit AngleUnit) EulerAngles {
	return EulerAngles{v: [3]float64{
		unit.toRadians(roll),
		unit.toRadians(pitch),
		unit.toRadians(yaw),
	}}
}

func (e EulerAngles) Roll() float64  { return e.v[0] }
func (e EulerAngles) Pitch() float64 { return e.v[1] }
func (e EulerAngles) Yaw() float64   { return e.v[2] }

func (e *EulerAngles) SetRoll(a float64)  { e.v[0] = a }
func (e *EulerAngles) SetPitch(a float64) { e.v[1] = a }
func (e *EulerAngles) SetYaw(a float64)   { e.v[2] = a }

// AsVector returns the angles in the requested unit.
func (e EulerAngles) AsVector(unit AngleUnit) [3]float64 {
	return [3]float64{
		unit.fromRadians(e.v[0]),
		unit.fromRadians(e.v[1]),
		unit.fromRadians(e.v[2]),
	}
}

// RRoll is the inertial-to-body rotation due to roll, in the East-Down plane.
func (e EulerAngles) RRoll() RotationMatrix {
	s, c := math.Sincos(e.Roll())
	return RotationMatrix{m: [9]float64{
		1, 0, 0,
		0, c, s,
		0, -s, c,
	}}
}

// RPitch is the inertial-to-body rotation due to pitch, in the North-Down plane.
func (e EulerAngles) RPitch() RotationMatrix {
	s, c := math.Sincos(e.Pitch())
	return RotationMatrix{m: [9]float64{
		c, 0, -s,
		0, 1, 0,
		s, 0, c,
	}}
}

// RYaw is the inertial-to-body rotation due to yaw, in the North-East plane.
func (e EulerAngles) RYaw() RotationMatrix {
	s, c := math.Sincos(e.Yaw())
	return RotationMatrix{m: [9]float64{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}}
}

// RBI returns the body-to-inertial (NED) matrix, the transpose of
// RRoll·RPitch·RYaw.
func (e EulerAngles) RBI() RotationMatrix {
	return e.RRoll().Mul(e.RPitch()).Mul(e.RYaw()).T()
}

// EulerFromRotationMatrix extracts aerospace angles from a body-to-inertial
// matrix. At pitch = ±90° the divisions degenerate and the result is
// whatever atan produces.
func EulerFromRotationMatrix(r RotationMatrix) EulerAngles {
	phi := math.Atan(r.At(2, 1) / r.At(2, 2))
	theta := -math.Asin(r.At(2, 0))
	psi := math.Atan(r.At(1, 0) / r.At(0, 0))
	return EulerAngles{v: [3]float64{phi, theta, psi}}
}

// EulerFromQuaternion is the inverse direction of QuaternionFromEuler.
func EulerFromQuaternion(q UnitQuaternion) EulerAngles {
	return q.AsEuler()
}

// Clone returns an independent copy.
func (e EulerAngles) Clone() EulerAngles {
	return EulerAngles{v: e.v}
}

func (e EulerAngles) Equal(o EulerAngles) bool {
	return e.v == o.v
}

func (e EulerAngles) ApproxEqual(o EulerAngles, tol float64) bool {
	return approxEqual(e.v[:], o.v[:], tol)
}

func (e EulerAngles) String() string {
	return fmt.Sprintf("EulerAngles[rad](roll = %v, pitch = %v, yaw = %v)", e.v[0], e.v[1], e.v[2])
}
