// Package analysis inspects propagated attitude histories.
//
//   - [PowerSpectrum] and [DominantFrequency]: FFT of one channel, e.g. the
//     roll oscillation of a coning motion
//   - [GeneratePhasePortrait]: one channel against another, drawn as text
//
// Channels are picked by [Axis]; angles are in degrees, rates in deg/s.
package analysis
