package config

import "sort"

var Presets = map[string]*Config{
	"hover": {
		Name: "hover", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Renormalize: true, Unit: "deg",
	},
	"roll": {
		Name: "roll", Integrator: "rk4", Dt: 0.01, Duration: 12.0, Renormalize: true, Unit: "deg",
		Rates: []SegmentConfig{{Start: 0, P: 30}},
	},
	"pitch_up": {
		Name: "pitch_up", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Renormalize: true, Unit: "deg",
		Rates: []SegmentConfig{{Start: 0, Q: 10}, {Start: 4}},
	},
	"coordinated_turn": {
		Name: "coordinated_turn", Integrator: "rk4", Dt: 0.01, Duration: 36.0, Renormalize: true, Unit: "deg",
		Initial:  AttitudeConfig{Roll: 30},
		Rates:    []SegmentConfig{{Start: 0, Q: 5, R: 8.660254037844386}},
		Envelope: &EnvelopeConfig{Roll: 35, Pitch: 15},
	},
	"level": {
		Name: "level", Integrator: "rk4", Dt: 0.01, Duration: 10.0, Renormalize: true, Unit: "deg",
		Initial: AttitudeConfig{Roll: 40, Pitch: -15, Yaw: 30},
		Hold:    &HoldConfig{Target: AttitudeConfig{Yaw: 30}, Kp: 1.5, MaxRate: 30},
	},
	"tumble": {
		Name: "tumble", Integrator: "euler", Dt: 0.01, Duration: 20.0, Renormalize: false, Unit: "deg",
		Initial: AttitudeConfig{Roll: 5, Pitch: -10, Yaw: 45},
		Rates:   []SegmentConfig{{Start: 0, P: 45, Q: -30, R: 60}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
