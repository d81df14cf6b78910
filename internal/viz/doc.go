// Package viz renders simulations in the terminal.
//
// The package implements a TUI on the Bubble Tea framework:
//
//   - [Model]: live simulation view with time travel, also used to
//     replay recorded runs
//   - [Canvas]: Braille pixel canvas for high-fidelity rendering
//   - [Viewport]: world-to-pixel projection fitted around the scene
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the world (or restart a replay)
//	↑/↓   - Scale gravity up/down
//	[ ]   - Time travel (rewind/forward)
//	?     - Show help overlay
//	Q     - Quit
package viz
