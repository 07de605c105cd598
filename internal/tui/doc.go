// Package tui is the interactive terminal front end: one editable row per
// notebook line, results on the right, a tooltip for the focused line's
// error and a toggleable help panel.
package tui
