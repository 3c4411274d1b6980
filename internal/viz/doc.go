// Package viz renders finished descents in the terminal.
//
//   - [PlotSeries], [PlotDrag]: asciigraph line charts
//   - [SummaryTable], [PhaseTable], [ReferenceTable]: lipgloss tables
//   - [Canvas], [Profile]: braille altitude profile
//   - [ReplayModel]: Bubble Tea replay of a stored run
//
// # Replay Key Bindings
//
//	Space - Pause/Resume
//	+/-   - Faster/slower playback
//	R     - Restart from the top
//	Q     - Quit
package viz
