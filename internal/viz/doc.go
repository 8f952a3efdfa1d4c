// Package viz renders shaded frames in the terminal.
//
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell, one color per cell
//   - [Live]: Bubble Tea model advancing a simulator on a tick
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	Q     - Quit
package viz
