package rotation

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

func vecApprox(a, b r3.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestUnitQuaternion_Constructors(t *testing.T) {
	q1, err := NewUnitQuaternion([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !q1.IsUnit() {
		t.Errorf("%v is not unit", q1)
	}

	q2, _ := NewUnitQuaternion([]float64{1, 0, 2, 0})
	if !q2.IsUnit() {
		t.Errorf("%v is not unit, norm %v", q2, q2.Norm())
	}
	want := 1 / math.Sqrt(5)
	if math.Abs(q2.W()-want) > 1e-15 || math.Abs(q2.Y()-2*want) > 1e-15 {
		t.Errorf("q2 = %v", q2)
	}

	q3 := q2.Inverse()
	if !q3.IsUnit() {
		t.Errorf("inverse %v is not unit", q3)
	}
	if q3.Imag() != q2.Imag().Mul(-1) {
		t.Errorf("inverse imag = %v, want %v", q3.Imag(), q2.Imag().Mul(-1))
	}
}

func TestUnitQuaternion_WrongLength(t *testing.T) {
	for _, v := range [][]float64{{1, 0, 0}, {1, 0, 0, 0, 0}} {
		if _, err := NewUnitQuaternion(v); !errors.Is(err, ErrShape) {
			t.Errorf("NewUnitQuaternion(%v) err = %v, want ErrShape", v, err)
		}
	}

	q := DefaultQuaternion()
	if err := q.SetImag([]float64{1, 2}); !errors.Is(err, ErrShape) {
		t.Errorf("SetImag err = %v, want ErrShape", err)
	}
}

func TestUnitQuaternion_ZeroNormLeftAlone(t *testing.T) {
	q, err := NewUnitQuaternion([]float64{0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if q.AsVector() != [4]float64{} {
		t.Errorf("zero quaternion changed to %v", q)
	}
	if q.IsUnit() {
		t.Error("zero quaternion reported unit")
	}
}

func TestUnitQuaternion_NormalizeIdempotent(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 3, 4},
		{-0.3, 0.01, 7, 2},
		{1e-3, 0, 0, 1e-3},
		{5, 0, 0, 0},
	}
	for _, in := range inputs {
		q1, _ := NewUnitQuaternion(in)
		v := q1.AsVector()
		q2, _ := NewUnitQuaternion(v[:])
		if !q1.ApproxEqual(q2, 1e-15) {
			t.Errorf("renormalizing %v gave %v", q1, q2)
		}
	}
}

func TestUnitQuaternion_CloneIsIndependent(t *testing.T) {
	q := QuaternionFromEulerAngles(10, 20, 30, Degrees)
	orig := q.AsVector()

	c := q.Clone()
	if err := c.SetImag([]float64{3, 3, 3}); err != nil {
		t.Fatal(err)
	}
	c.Normalize()

	if q.AsVector() != orig {
		t.Errorf("original changed to %v", q)
	}
	if !c.IsUnit() {
		t.Errorf("clone not renormalized: %v", c)
	}
}

func TestUnitQuaternion_ConjugateInvolution(t *testing.T) {
	q := QuaternionFromComponents(0.2, -0.5, 0.7, 0.1)
	if !q.Conjugate().Conjugate().Equal(q) {
		t.Errorf("conj(conj(q)) = %v, want %v", q.Conjugate().Conjugate(), q)
	}
}

func TestUnitQuaternion_Flipped(t *testing.T) {
	q := QuaternionFromEulerAngles(30, -10, 80, Degrees)
	f := q.Flipped()

	if f.Equal(q) {
		t.Fatal("Flipped() returned the same components")
	}
	if f.W() != -q.W() || f.Imag() != q.Imag().Mul(-1) {
		t.Errorf("Flipped() = %v, want -%v", f, q)
	}
	if !f.RBI().ApproxEqual(q.RBI(), 1e-12) {
		t.Errorf("Flipped() rotation %v, want %v", f.RBI(), q.RBI())
	}
}

func TestUnitQuaternion_ProductMatchesGonum(t *testing.T) {
	p := QuaternionFromComponents(0.9, 0.1, -0.3, 0.2)
	q := QuaternionFromComponents(-0.4, 0.6, 0.2, 0.5)

	got := p.QuatProduct(q)
	want := QuaternionFromNumber(quat.Mul(p.Number(), q.Number()))
	if !got.ApproxEqual(want, 1e-14) {
		t.Errorf("p⊗q = %v, want %v", got, want)
	}
}

func TestUnitQuaternion_AsProdMat(t *testing.T) {
	q := QuaternionFromComponents(1, 2, 3, 4)
	w, x, y, z := q.W(), q.X(), q.Y(), q.Z()
	want := mat.NewDense(4, 4, []float64{
		w, -x, -y, -z,
		x, w, -z, y,
		y, z, w, -x,
		z, -y, x, w,
	})
	if got := q.AsProdMat(); !mat.EqualApprox(got, want, 1e-15) {
		t.Errorf("AsProdMat() =\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestUnitQuaternion_InverseComposesToIdentity(t *testing.T) {
	q := QuaternionFromEulerAngles(0.4, -1.1, 2.0, Radians)
	got := q.QuatProduct(q.Inverse())
	if !got.ApproxEqual(DefaultQuaternion(), 1e-14) {
		t.Errorf("q⊗q⁻¹ = %v, want identity", got)
	}
}

func TestUnitQuaternion_QuatRotate(t *testing.T) {
	tests := []struct {
		name string
		q    UnitQuaternion
		v    r3.Vector
		want r3.Vector
	}{
		{"identity", DefaultQuaternion(), r3.Vector{X: 1, Y: -2, Z: 3}, r3.Vector{X: 1, Y: -2, Z: 3}},
		{"yaw 90", QuaternionFromEulerAngles(0, 0, 90, Degrees), r3.Vector{X: 1}, r3.Vector{Y: 1}},
		{"roll 90", QuaternionFromEulerAngles(90, 0, 0, Degrees), r3.Vector{Y: 2}, r3.Vector{Z: 2}},
		{"pitch 90", QuaternionFromEulerAngles(0, 90, 0, Degrees), r3.Vector{X: 1}, r3.Vector{Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.QuatRotate(tt.v); !vecApprox(got, tt.want, 1e-12) {
				t.Errorf("QuatRotate(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestUnitQuaternion_RotateMatchesRBI(t *testing.T) {
	q := QuaternionFromEulerAngles(0.3, 0.5, -2.2, Radians)
	v := r3.Vector{X: 4, Y: -1, Z: 0.5}
	if got, want := q.QuatRotate(v), q.RBI().MulVec(v); !vecApprox(got, want, 1e-12) {
		t.Errorf("QuatRotate = %v, RBI·v = %v", got, want)
	}
}

func TestUnitQuaternion_QDot(t *testing.T) {
	got, err := DefaultQuaternion().QDot([]float64{0, 0, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if got != [4]float64{0, 0, 0, 0.05} {
		t.Errorf("QDot = %v, want [0 0 0 0.05]", got)
	}

	for _, omega := range [][]float64{{1, 2}, {1, 2, 3, 4}} {
		if _, err := DefaultQuaternion().QDot(omega); !errors.Is(err, ErrShape) {
			t.Errorf("QDot(%v) err = %v, want ErrShape", omega, err)
		}
	}
}

func TestQDotRaw(t *testing.T) {
	got := QDotRaw([4]float64{2, 0, 0, 0}, r3.Vector{Z: 0.1})
	if got != [4]float64{0, 0, 0, 0.1} {
		t.Errorf("QDotRaw = %v, want [0 0 0 0.1]", got)
	}

	q := QuaternionFromEulerAngles(0.3, -0.2, 1.1, Radians)
	omega := r3.Vector{X: 0.4, Y: -0.1, Z: 0.7}
	if QDotRaw(q.AsVector(), omega) != q.QDotVec(omega) {
		t.Error("QDotRaw disagrees with QDotVec on a unit quaternion")
	}
}

func TestUnitQuaternion_UnitAxes(t *testing.T) {
	q := QuaternionFromEulerAngles(-0.7, 0.2, 1.9, Radians)
	r := q.RBI()
	axes := []r3.Vector{q.UnitX(), q.UnitY(), q.UnitZ()}
	for j, a := range axes {
		if !vecApprox(a, r.Col(j), 1e-14) {
			t.Errorf("unit axis %d = %v, want %v", j, a, r.Col(j))
		}
	}
}

func TestUnitQuaternion_RBIMatchesEuler(t *testing.T) {
	e := EulerFromAngles(20, -35, 120, Degrees)
	q := QuaternionFromEuler(e)
	if !q.RBI().ApproxEqual(e.RBI(), 1e-12) {
		t.Errorf("quaternion RBI = %v, Euler RBI = %v", q.RBI(), e.RBI())
	}
}

func TestUnitQuaternion_AsEuler(t *testing.T) {
	if got := DefaultQuaternion().AsEuler(); !got.ApproxEqual(EulerAngles{}, 1e-15) {
		t.Errorf("AsEuler() = %v, want zeros", got)
	}

	q := QuaternionFromEulerAngles(0, 0, 180, Degrees)
	want := QuaternionFromComponents(0, 0, 0, 1)
	if !q.ApproxEqual(want, 1e-15) {
		t.Errorf("yaw 180° = %v, want %v", q, want)
	}
}

func TestQuaternionFromRotationMatrix(t *testing.T) {
	q := QuaternionFromEulerAngles(0.3, -0.2, 1.1, Radians)
	r := q.RBI()
	dense := r.Dense()
	nested := r.AsMatrix()
	rows := [][]float64{nested[0][:], nested[1][:], nested[2][:]}

	inputs := map[string]any{
		"value":   r,
		"pointer": &r,
		"dense":   dense,
		"array":   nested,
		"slices":  rows,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := QuaternionFromRotationMatrix(in)
			if err != nil {
				t.Fatal(err)
			}
			if !got.ApproxEqual(q, 1e-12) {
				t.Errorf("got %v, want %v", got, q)
			}
		})
	}
}

func TestQuaternionFromRotationMatrix_Identity(t *testing.T) {
	got, err := QuaternionFromRotationMatrix(IdentityMatrix())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(DefaultQuaternion()) {
		t.Errorf("got %v, want identity", got)
	}
}

func TestQuaternionFromRotationMatrix_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want error
	}{
		{"int", 5, ErrType},
		{"string", "R", ErrType},
		{"flat", []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, ErrType},
		{"3x4 slices", [][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}, ErrShape},
		{"4x4 dense", mat.NewDense(4, 4, nil), ErrShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := QuaternionFromRotationMatrix(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRotationRoundTrips(t *testing.T) {
	e := EulerFromAngles(15, 25, -60, Degrees)
	r := e.RBI()

	viaEuler := EulerFromRotationMatrix(r).RBI()
	if !viaEuler.ApproxEqual(r, 1e-12) {
		t.Errorf("matrix→Euler→matrix = %v, want %v", viaEuler, r)
	}

	q, err := QuaternionFromRotationMatrix(r)
	if err != nil {
		t.Fatal(err)
	}
	if !q.RBI().ApproxEqual(r, 1e-12) {
		t.Errorf("matrix→quaternion→matrix = %v, want %v", q.RBI(), r)
	}
	if !q.ApproxEqual(QuaternionFromEuler(e), 1e-12) {
		t.Errorf("matrix path %v != Euler path %v", q, QuaternionFromEuler(e))
	}
}
