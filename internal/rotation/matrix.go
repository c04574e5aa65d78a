package rotation

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// RotationMatrix is a 3x3 orthonormal matrix stored in row-major order.
// Element (i, j) lives at index 3*i + j.
type RotationMatrix struct {
	m [9]float64
}

// NewRotationMatrix builds a matrix from nested rows. Anything other than
// exactly three rows of three columns is rejected.
func NewRotationMatrix(rows [][]float64) (RotationMatrix, error) {
	if len(rows) != 3 {
		cols := 0
		if len(rows) > 0 {
			cols = len(rows[0])
		}
		return RotationMatrix{}, dimsError("NewRotationMatrix", len(rows), cols)
	}
	var r RotationMatrix
	for i, row := range rows {
		if len(row) != 3 {
			return RotationMatrix{}, dimsError("NewRotationMatrix", len(rows), len(row))
		}
		copy(r.m[3*i:3*i+3], row)
	}
	return r, nil
}

// RotationMatrixFromDense copies a 3x3 gonum matrix.
func RotationMatrixFromDense(a mat.Matrix) (RotationMatrix, error) {
	rows, cols := a.Dims()
	if rows != 3 || cols != 3 {
		return RotationMatrix{}, dimsError("RotationMatrixFromDense", rows, cols)
	}
	var r RotationMatrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.m[3*i+j] = a.At(i, j)
		}
	}
	return r, nil
}

// RotationMatrixFromVector reshapes a 9-vector row-major into 3x3.
func RotationMatrixFromVector(v []float64) (RotationMatrix, error) {
	if len(v) != 9 {
		return RotationMatrix{}, lengthError("RotationMatrixFromVector", 9, len(v))
	}
	var r RotationMatrix
	copy(r.m[:], v)
	return r, nil
}

func rotationMatrixFromArray(a [3][3]float64) RotationMatrix {
	var r RotationMatrix
	for i := 0; i < 3; i++ {
		copy(r.m[3*i:3*i+3], a[i][:])
	}
	return r
}

// IdentityMatrix returns the 3x3 identity.
func IdentityMatrix() RotationMatrix {
	return RotationMatrix{m: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// DefaultMatrix is the canonical "no rotation" matrix, the identity.
func DefaultMatrix() RotationMatrix {
	return IdentityMatrix()
}

// RotationMatrixFromYawAndZ builds NED body axes from a yaw angle (radians)
// and the inertial Z axis expressed in the body frame. A nil z means [0,0,1].
//
// The provisional East axis [-sin(yaw), cos(yaw), 0] is crossed with z to get
// North, then East is recomputed as z×North. A zero z, or a z parallel to the
// provisional East axis, divides by a zero norm.
func RotationMatrixFromYawAndZ(yaw float64, z []float64) (RotationMatrix, error) {
	zAxis := r3.Vector{Z: 1}
	if z != nil {
		if len(z) != 3 {
			return RotationMatrix{}, lengthError("RotationMatrixFromYawAndZ", 3, len(z))
		}
		zAxis = r3.Vector{X: z[0], Y: z[1], Z: z[2]}
		zAxis = zAxis.Mul(1 / zAxis.Norm())
	}

	sin, cos := math.Sincos(yaw)
	east := r3.Vector{X: -sin, Y: cos}

	north := east.Cross(zAxis)
	north = north.Mul(1 / north.Norm())

	east = zAxis.Cross(north)

	return RotationMatrix{m: [9]float64{
		north.X, east.X, zAxis.X,
		north.Y, east.Y, zAxis.Y,
		north.Z, east.Z, zAxis.Z,
	}}, nil
}

// At returns element (i, j).
func (r RotationMatrix) At(i, j int) float64 {
	return r.m[3*i+j]
}

// AsVector returns the row-major 9-vector.
func (r RotationMatrix) AsVector() [9]float64 {
	return r.m
}

// AsMatrix returns the nested 3x3 form.
func (r RotationMatrix) AsMatrix() [3][3]float64 {
	var a [3][3]float64
	for i := 0; i < 3; i++ {
		copy(a[i][:], r.m[3*i:3*i+3])
	}
	return a
}

// Dense returns a fresh gonum copy of the matrix.
func (r RotationMatrix) Dense() *mat.Dense {
	data := r.m
	return mat.NewDense(3, 3, data[:])
}

// T returns the transpose, which is also the inverse for an orthonormal matrix.
func (r RotationMatrix) T() RotationMatrix {
	m := r.m
	return RotationMatrix{m: [9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Mul returns the ordinary matrix product r·o.
func (r RotationMatrix) Mul(o RotationMatrix) RotationMatrix {
	var p mat.Dense
	p.Mul(r.Dense(), o.Dense())
	out, _ := RotationMatrixFromDense(&p)
	return out
}

// MulVec returns r·v.
func (r RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	m := r.m
	return r3.Vector{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Col returns column j.
func (r RotationMatrix) Col(j int) r3.Vector {
	return r3.Vector{X: r.m[j], Y: r.m[3+j], Z: r.m[6+j]}
}

func (r RotationMatrix) Trace() float64 {
	return r.m[0] + r.m[4] + r.m[8]
}

func (r RotationMatrix) Det() float64 {
	return mat.Det(r.Dense())
}

// Equal reports exact component-wise equality.
func (r RotationMatrix) Equal(o RotationMatrix) bool {
	return r.m == o.m
}

// ApproxEqual reports component-wise equality within tol.
func (r RotationMatrix) ApproxEqual(o RotationMatrix, tol float64) bool {
	return approxEqual(r.m[:], o.m[:], tol)
}

func (r RotationMatrix) String() string {
	m := r.m
	return fmt.Sprintf("RotationMatrix([[% .7f % .7f % .7f] [% .7f % .7f % .7f] [% .7f % .7f % .7f]])",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func approxEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
