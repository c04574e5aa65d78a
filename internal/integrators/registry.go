package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/attitude/internal/sim"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var registry = map[string]func() sim.Integrator{
	"euler": func() sim.Integrator { return NewEuler() },
	"rk4":   func() sim.Integrator { return NewRK4() },
}

// New returns a fresh stepper registered under name. An empty name selects rk4.
func New(name string) (sim.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntegrator, name)
	}
	return factory(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
