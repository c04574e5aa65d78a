package rotation

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Compose applies u to rhs as a rotation.
//
// A UnitQuaternion (or pointer to one) yields the Hamilton product u⊗rhs as a
// UnitQuaternion. An r3.Vector, [3]float64 or []float64 of length 3 yields the
// rotated vector as an r3.Vector. A slice of any other length is a
// ShapeError; every other kind is ErrType.
func (u UnitQuaternion) Compose(rhs any) (any, error) {
	switch v := rhs.(type) {
	case UnitQuaternion:
		return u.QuatProduct(v), nil
	case *UnitQuaternion:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *UnitQuaternion", ErrType)
		}
		return u.QuatProduct(*v), nil
	case r3.Vector:
		return u.QuatRotate(v), nil
	case [3]float64:
		return u.QuatRotate(r3.Vector{X: v[0], Y: v[1], Z: v[2]}), nil
	case []float64:
		if len(v) != 3 {
			return nil, lengthError("Compose", 3, len(v))
		}
		return u.QuatRotate(r3.Vector{X: v[0], Y: v[1], Z: v[2]}), nil
	default:
		return nil, fmt.Errorf("%w: cannot rotate %T", ErrType, rhs)
	}
}

// Mul always fails. Quaternion multiplication is only exposed as rotation
// composition.
func (u UnitQuaternion) Mul(rhs any) (any, error) {
	return nil, fmt.Errorf("%w: UnitQuaternion does not support multiplication, use Compose for rotations", ErrOperationNotSupported)
}
