// Package viz renders simulations in the terminal and to SVG.
//
//   - [Canvas]: Braille-based pixel canvas with a text overlay
//   - [Scene]: a physics.Drawer that projects bodies onto a Canvas
//   - [Model]: Bubble Tea live view with an energy chart
//   - [TrajectoryRecorder]: a physics.Drawer that collects paths for SVG export
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	R     - Reset to initial bodies
//	+/-   - Double or halve steps per frame
//	T     - Toggle trails
//	L     - Toggle labels
//	C     - Cycle color themes
//	?     - Show help overlay
package viz
