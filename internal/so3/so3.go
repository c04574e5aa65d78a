// Package so3 provides the hat/vex isomorphism between 3-vectors and
// skew-symmetric matrices, and the symmetric/antisymmetric projections of
// square matrices.
package so3

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Hat returns the cross-product matrix of v, i.e. Hat(v)·u == v×u.
func Hat(v r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	})
}

// Vex is the inverse of Hat on the skew-symmetric part of m.
// A nil m is read as the identity.
func Vex(m mat.Matrix) r3.Vector {
	if m == nil {
		return r3.Vector{}
	}
	return r3.Vector{X: m.At(2, 1), Y: m.At(0, 2), Z: m.At(1, 0)}
}

// SymProj returns (H + Hᵗ)/2. A nil h is read as the identity.
func SymProj(h mat.Matrix) *mat.Dense {
	h = orIdentity(h)
	var p mat.Dense
	p.Add(h, h.T())
	p.Scale(0.5, &p)
	return &p
}

// AsymProj returns (H - Hᵗ)/2. A nil h is read as the identity.
func AsymProj(h mat.Matrix) *mat.Dense {
	h = orIdentity(h)
	var p mat.Dense
	p.Sub(h, h.T())
	p.Scale(0.5, &p)
	return &p
}

func orIdentity(h mat.Matrix) mat.Matrix {
	if h == nil {
		return mat.NewDiagDense(3, []float64{1, 1, 1})
	}
	return h
}
