package rotation_test

import (
	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attitude/internal/rotation"
)

const tol = 1e-12

func expectVec(got, want r3.Vector) {
	ExpectWithOffset(1, got.X).To(BeNumerically("~", want.X, tol))
	ExpectWithOffset(1, got.Y).To(BeNumerically("~", want.Y, tol))
	ExpectWithOffset(1, got.Z).To(BeNumerically("~", want.Z, tol))
}

var samples = []rotation.UnitQuaternion{
	rotation.DefaultQuaternion(),
	rotation.QuaternionFromEulerAngles(30, 20, 10, rotation.Degrees),
	rotation.QuaternionFromEulerAngles(-120, 45, 170, rotation.Degrees),
	rotation.QuaternionFromComponents(0.1, -0.8, 0.3, 0.5),
}

var vectors = []r3.Vector{
	{X: 1},
	{Y: -2, Z: 0.5},
	{X: 3, Y: 4, Z: -5},
}

var _ = Describe("Rotation laws", func() {
	Describe("identity", func() {
		It("leaves vectors unchanged under the default quaternion", func() {
			for _, v := range vectors {
				got, err := rotation.DefaultQuaternion().Compose(v)
				Expect(err).NotTo(HaveOccurred())
				expectVec(got.(r3.Vector), v)
			}
		})

		It("agrees between identity and default matrices", func() {
			Expect(rotation.IdentityMatrix().Equal(rotation.DefaultMatrix())).To(BeTrue())
		})

		It("maps zero Euler angles to the identity matrix", func() {
			e, err := rotation.NewEulerAngles([]float64{0, 0, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.RBI().Equal(rotation.IdentityMatrix())).To(BeTrue())
		})

		It("builds the identity frame from zero yaw and a vertical axis", func() {
			r, err := rotation.RotationMatrixFromYawAndZ(0, []float64{0, 0, 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(r.ApproxEqual(rotation.IdentityMatrix(), tol)).To(BeTrue())
		})
	})

	Describe("inverse", func() {
		It("undoes a rotation", func() {
			for _, q := range samples {
				for _, v := range vectors {
					composed := q.QuatProduct(q.Inverse())
					got, err := composed.Compose(v)
					Expect(err).NotTo(HaveOccurred())
					expectVec(got.(r3.Vector), v)
				}
			}
		})

		It("is an involution for the conjugate", func() {
			for _, q := range samples {
				Expect(q.Conjugate().Conjugate().Equal(q)).To(BeTrue())
			}
		})
	})

	Describe("antipodal quaternions", func() {
		It("rotate vectors identically", func() {
			for _, q := range samples {
				f := q.Flipped()
				Expect(f.Equal(q)).To(BeFalse())
				for _, v := range vectors {
					expectVec(f.QuatRotate(v), q.QuatRotate(v))
				}
			}
		})
	})

	Describe("round trips", func() {
		It("reproduces the matrix through Euler angles and quaternions", func() {
			for _, q := range samples {
				r := q.RBI()
				if r.At(0, 0) <= 0 || r.At(2, 2) <= 0 {
					// atan-based extraction only covers |roll|, |yaw| < 90°.
					continue
				}
				Expect(rotation.EulerFromRotationMatrix(r).RBI().ApproxEqual(r, tol)).To(BeTrue())

				back, err := rotation.QuaternionFromRotationMatrix(r)
				Expect(err).NotTo(HaveOccurred())
				Expect(back.RBI().ApproxEqual(r, tol)).To(BeTrue())
			}
		})

		It("reproduces Euler angles through quaternions", func() {
			e := rotation.EulerFromAngles(-40, 12, 150, rotation.Degrees)
			got := rotation.QuaternionFromEuler(e).AsEuler()
			Expect(got.ApproxEqual(e, tol)).To(BeTrue())
		})
	})

	Describe("shape rejection", func() {
		DescribeTable("constructors",
			func(build func() error) {
				Expect(build()).To(MatchError(rotation.ErrShape))
			},
			Entry("Euler with 2", func() error { _, err := rotation.NewEulerAngles([]float64{1, 2}); return err }),
			Entry("Euler with 4", func() error { _, err := rotation.NewEulerAngles([]float64{1, 2, 3, 4}); return err }),
			Entry("quaternion with 3", func() error { _, err := rotation.NewUnitQuaternion([]float64{1, 2, 3}); return err }),
			Entry("quaternion with 5", func() error { _, err := rotation.NewUnitQuaternion([]float64{1, 2, 3, 4, 5}); return err }),
			Entry("matrix 3x4", func() error {
				_, err := rotation.NewRotationMatrix([][]float64{{1, 2, 3, 4}, {4, 5, 6, 5}, {7, 8, 9, 7}})
				return err
			}),
		)
	})

	Describe("composition dispatch", func() {
		q := rotation.QuaternionFromEulerAngles(5, 10, 15, rotation.Degrees)

		It("returns a quaternion for a quaternion operand", func() {
			got, err := q.Compose(q)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeAssignableToTypeOf(rotation.UnitQuaternion{}))
		})

		It("returns a vector for a 3-vector operand", func() {
			got, err := q.Compose([]float64{1, 2, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeAssignableToTypeOf(r3.Vector{}))
		})

		It("rejects scalars", func() {
			_, err := q.Compose(3.0)
			Expect(err).To(MatchError(rotation.ErrType))
		})

		It("refuses ordinary multiplication", func() {
			_, err := q.Mul(q)
			Expect(err).To(MatchError(rotation.ErrOperationNotSupported))
			Expect(err.Error()).To(ContainSubstring("Compose"))
		})
	})

	Describe("kinematics", func() {
		It("differentiates the identity under a yaw rate", func() {
			got, err := rotation.DefaultQuaternion().QDot([]float64{0, 0, 0.1})
			Expect(err).NotTo(HaveOccurred())
			Expect(got[:]).To(Equal([]float64{0, 0, 0, 0.05}))
		})
	})
})
