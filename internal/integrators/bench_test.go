package integrators

import (
	"testing"

	"github.com/san-kum/attitude/internal/sim"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &spin{r: 1}
	x := sim.State{1, 0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &spin{r: 1}
	x := sim.State{1, 0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}
