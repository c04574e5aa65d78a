// Package rotation provides interchangeable 3D rotation representations:
//
//   - [RotationMatrix]: 3x3 orthonormal direction cosine matrix
//   - [EulerAngles]: aerospace roll, pitch, yaw (NED, yaw-pitch-roll order)
//   - [UnitQuaternion]: scalar-first unit quaternion
//
// All three are value types backed by fixed-size arrays, so plain assignment
// copies. Conversions always return fresh values.
//
// # Conventions
//
// RBI methods return the body-to-inertial matrix. Angles are stored in
// radians; [Degrees] is accepted only at construction and by AsVector.
//
// # Composition
//
// Quaternion multiplication is only available as rotation composition:
//
//	q := rotation.QuaternionFromEulerAngles(0, 0, 90, rotation.Degrees)
//	v, _ := q.Compose(r3.Vector{X: 1})     // r3.Vector{Y: 1}
//	p, _ := q.Compose(q.Inverse())         // identity UnitQuaternion
//
// # Singularities
//
// Euler extraction at pitch = ±90° and quaternion extraction from a matrix
// rotated by 180° are not special-cased and may produce NaN or Inf.
package rotation
