// Package viz renders attitudes and propagated trajectories for the terminal.
//
// Text output is styled with lipgloss; time series are drawn with asciigraph:
//
//   - [FormatQuaternion], [FormatEuler], [FormatMatrix]: labelled panels
//   - [PlotEuler], [PlotNormDrift]: roll/pitch/yaw and norm drift over time
//   - [Canvas] and [RenderAttitude]: a braille wireframe of the body axes
//
// Themes only change colors; layout is the same for all of them.
package viz
