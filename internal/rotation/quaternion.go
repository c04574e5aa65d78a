package rotation

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/attitude/internal/so3"
)

// unitTolerance is how far the norm may stray from 1 before Normalize acts.
const unitTolerance = 1e-15

// UnitQuaternion is a rotation on the unit 3-sphere stored as (w, x, y, z),
// scalar part first.
type UnitQuaternion struct {
	q [4]float64
}

// NewUnitQuaternion returns q normalized onto the unit sphere. A zero-norm
// input is returned as is.
func NewUnitQuaternion(q []float64) (UnitQuaternion, error) {
	if len(q) != 4 {
		return UnitQuaternion{}, lengthError("NewUnitQuaternion", 4, len(q))
	}
	return QuaternionFromComponents(q[0], q[1], q[2], q[3]), nil
}

// QuaternionFromComponents is the fixed-size form of NewUnitQuaternion.
func QuaternionFromComponents(w, x, y, z float64) UnitQuaternion {
	u := UnitQuaternion{q: [4]float64{w, x, y, z}}
	u.Normalize()
	return u
}

// QuaternionFromNumber converts a gonum quaternion.
func QuaternionFromNumber(n quat.Number) UnitQuaternion {
	return QuaternionFromComponents(n.Real, n.Imag, n.Jmag, n.Kmag)
}

// DefaultQuaternion is the identity rotation [1, 0, 0, 0].
func DefaultQuaternion() UnitQuaternion {
	return UnitQuaternion{q: [4]float64{1, 0, 0, 0}}
}

func (u UnitQuaternion) W() float64 { return u.q[0] }
func (u UnitQuaternion) X() float64 { return u.q[1] }
func (u UnitQuaternion) Y() float64 { return u.q[2] }
func (u UnitQuaternion) Z() float64 { return u.q[3] }

// Real is the scalar part.
func (u UnitQuaternion) Real() float64 { return u.q[0] }

// Imag is the vector part.
func (u UnitQuaternion) Imag() r3.Vector {
	return r3.Vector{X: u.q[1], Y: u.q[2], Z: u.q[3]}
}

// SetImag overwrites the vector part without renormalizing.
func (u *UnitQuaternion) SetImag(v []float64) error {
	if len(v) != 3 {
		return lengthError("SetImag", 3, len(v))
	}
	copy(u.q[1:], v)
	return nil
}

// AsVector returns (w, x, y, z).
func (u UnitQuaternion) AsVector() [4]float64 {
	return u.q
}

// Number returns the gonum representation.
func (u UnitQuaternion) Number() quat.Number {
	return quat.Number{Real: u.q[0], Imag: u.q[1], Jmag: u.q[2], Kmag: u.q[3]}
}

func (u UnitQuaternion) Norm() float64 {
	q := u.q
	return math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
}

// IsUnit reports whether the norm is 1 within 1e-15.
func (u UnitQuaternion) IsUnit() bool {
	return math.Abs(1-u.Norm()) < unitTolerance
}

// Normalize rescales u onto the unit sphere in place. A zero quaternion is
// left untouched.
func (u *UnitQuaternion) Normalize() {
	if u.IsUnit() {
		return
	}
	n := u.Norm()
	if n > 0 {
		for i := range u.q {
			u.q[i] /= n
		}
	}
}

// Conjugate negates the vector part.
func (u UnitQuaternion) Conjugate() UnitQuaternion {
	return UnitQuaternion{q: [4]float64{u.q[0], -u.q[1], -u.q[2], -u.q[3]}}
}

// Inverse equals Conjugate since u is unit-norm.
func (u UnitQuaternion) Inverse() UnitQuaternion {
	return u.Conjugate()
}

// Flipped returns the antipodal quaternion -u, which encodes the same
// rotation on the other side of the 3-sphere.
func (u UnitQuaternion) Flipped() UnitQuaternion {
	return UnitQuaternion{q: [4]float64{-u.q[0], -u.q[1], -u.q[2], -u.q[3]}}
}

// AsProdMat returns the 4x4 matrix Q with Q·p == u⊗p.
func (u UnitQuaternion) AsProdMat() *mat.Dense {
	return prodMat(u.q)
}

func prodMat(q [4]float64) *mat.Dense {
	w := q[0]
	v := r3.Vector{X: q[1], Y: q[2], Z: q[3]}

	m := mat.NewDense(4, 4, []float64{
		w, 0, 0, 0,
		0, w, 0, 0,
		0, 0, w, 0,
		0, 0, 0, w,
	})
	imag := []float64{v.X, v.Y, v.Z}
	for k, c := range imag {
		m.Set(0, k+1, m.At(0, k+1)-c)
		m.Set(k+1, 0, m.At(k+1, 0)+c)
	}
	h := so3.Hat(v)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i+1, j+1, m.At(i+1, j+1)+h.At(i, j))
		}
	}
	return m
}

// QuatProduct returns the Hamilton product u⊗p.
func (u UnitQuaternion) QuatProduct(p UnitQuaternion) UnitQuaternion {
	var out mat.VecDense
	out.MulVec(u.AsProdMat(), mat.NewVecDense(4, p.q[:]))
	return QuaternionFromComponents(out.AtVec(0), out.AtVec(1), out.AtVec(2), out.AtVec(3))
}

// QuatRotate returns the vector part of u⊗[0,v]⊗u⁻¹.
func (u UnitQuaternion) QuatRotate(v r3.Vector) r3.Vector {
	var qv mat.Dense
	qv.Mul(u.AsProdMat(), prodMat([4]float64{0, v.X, v.Y, v.Z}))

	inv := u.Inverse()
	var out mat.VecDense
	out.MulVec(&qv, mat.NewVecDense(4, inv.q[:]))
	return r3.Vector{X: out.AtVec(1), Y: out.AtVec(2), Z: out.AtVec(3)}
}

// QDot returns dq/dt = ½ u⊗[0,ω] for a body rate ω.
func (u UnitQuaternion) QDot(omega []float64) ([4]float64, error) {
	if len(omega) != 3 {
		return [4]float64{}, lengthError("QDot", 3, len(omega))
	}
	return u.QDotVec(r3.Vector{X: omega[0], Y: omega[1], Z: omega[2]}), nil
}

// QDotVec is the fixed-size form of QDot.
func (u UnitQuaternion) QDotVec(omega r3.Vector) [4]float64 {
	var out mat.VecDense
	out.MulVec(u.AsProdMat(), mat.NewVecDense(4, []float64{0, omega.X, omega.Y, omega.Z}))
	out.ScaleVec(0.5, &out)
	return [4]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2), out.AtVec(3)}
}

// QDotRaw evaluates the kinematic derivative for a quaternion that has not
// been renormalized, as an integrator stage sees it.
func QDotRaw(q [4]float64, omega r3.Vector) [4]float64 {
	return UnitQuaternion{q: q}.QDotVec(omega)
}

// UnitX is the first column of RBI.
func (u UnitQuaternion) UnitX() r3.Vector {
	w, x, y, z := u.q[0], u.q[1], u.q[2], u.q[3]
	return r3.Vector{
		X: 1 - 2*(y*y+z*z),
		Y: 2 * (x*y + w*z),
		Z: 2 * (x*z - w*y),
	}
}

// UnitY is the second column of RBI.
func (u UnitQuaternion) UnitY() r3.Vector {
	w, x, y, z := u.q[0], u.q[1], u.q[2], u.q[3]
	return r3.Vector{
		X: 2 * (x*y - w*z),
		Y: 1 - 2*(x*x+z*z),
		Z: 2 * (y*z + w*x),
	}
}

// UnitZ is the third column of RBI.
func (u UnitQuaternion) UnitZ() r3.Vector {
	w, x, y, z := u.q[0], u.q[1], u.q[2], u.q[3]
	return r3.Vector{
		X: 2 * (x*z + w*y),
		Y: 2 * (y*z - w*x),
		Z: 1 - 2*(x*x+y*y),
	}
}

// RBI returns the body-to-inertial matrix I + 2w·hat(v) + 2·hat(v)².
func (u UnitQuaternion) RBI() RotationMatrix {
	h := so3.Hat(u.Imag())

	var h2 mat.Dense
	h2.Mul(h, h)
	h2.Scale(2, &h2)

	var r mat.Dense
	r.Scale(2*u.Real(), h)
	r.Add(&r, &h2)
	r.Add(&r, mat.NewDiagDense(3, []float64{1, 1, 1}))

	out, _ := RotationMatrixFromDense(&r)
	return out
}

// AsEuler returns aerospace angles. The pitch argument is not clamped, so
// numerical drift past ±1 yields NaN.
func (u UnitQuaternion) AsEuler() EulerAngles {
	w, x, y, z := u.q[0], u.q[1], u.q[2], u.q[3]
	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch := math.Asin(2 * (w*y - z*x))
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return EulerAngles{v: [3]float64{roll, pitch, yaw}}
}

// QuaternionFromRotationMatrix accepts a RotationMatrix, a gonum matrix,
// [][]float64 or [3][3]float64. The extraction divides by cos(angle/2) and is
// undefined for rotations near 180°.
func QuaternionFromRotationMatrix(r any) (UnitQuaternion, error) {
	var rm RotationMatrix
	var err error
	switch v := r.(type) {
	case RotationMatrix:
		rm = v
	case *RotationMatrix:
		if v == nil {
			return UnitQuaternion{}, fmt.Errorf("%w: nil *RotationMatrix", ErrType)
		}
		rm = *v
	case [3][3]float64:
		rm = rotationMatrixFromArray(v)
	case [][]float64:
		rm, err = NewRotationMatrix(v)
	case mat.Matrix:
		rm, err = RotationMatrixFromDense(v)
	default:
		return UnitQuaternion{}, fmt.Errorf("%w: cannot build a quaternion from %T", ErrType, r)
	}
	if err != nil {
		return UnitQuaternion{}, err
	}

	// Clamped so round-off on near-identity matrices does not leave acos' domain.
	c := math.Max(-1, math.Min(1, (rm.Trace()-1)/2))
	angle := math.Acos(c)
	w := math.Cos(angle / 2)
	imag := so3.Vex(so3.AsymProj(rm.Dense())).Mul(1 / (2 * w))

	return QuaternionFromComponents(w, imag.X, imag.Y, imag.Z), nil
}

// QuaternionFromEulerAngles composes q_yaw ⊗ q_pitch ⊗ q_roll.
func QuaternionFromEulerAngles(roll, pitch, yaw float64, unit AngleUnit) UnitQuaternion {
	roll, pitch, yaw = unit.toRadians(roll), unit.toRadians(pitch), unit.toRadians(yaw)

	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)

	qRoll := UnitQuaternion{q: [4]float64{cr, sr, 0, 0}}
	qPitch := UnitQuaternion{q: [4]float64{cp, 0, sp, 0}}
	qYaw := UnitQuaternion{q: [4]float64{cy, 0, 0, sy}}

	return qYaw.QuatProduct(qPitch).QuatProduct(qRoll)
}

// QuaternionFromEuler delegates to QuaternionFromEulerAngles in radians.
func QuaternionFromEuler(e EulerAngles) UnitQuaternion {
	return QuaternionFromEulerAngles(e.Roll(), e.Pitch(), e.Yaw(), Radians)
}

// Clone returns an independent copy; normalizing the copy leaves u unchanged.
func (u UnitQuaternion) Clone() UnitQuaternion {
	return UnitQuaternion{q: u.q}
}

func (u UnitQuaternion) Equal(o UnitQuaternion) bool {
	return u.q == o.q
}

func (u UnitQuaternion) ApproxEqual(o UnitQuaternion, tol float64) bool {
	return approxEqual(u.q[:], o.q[:], tol)
}

func (u UnitQuaternion) String() string {
	return fmt.Sprintf("UnitQuaternion(w = %v, x = %v, y = %v, z = %v)", u.q[0], u.q[1], u.q[2], u.q[3])
}
