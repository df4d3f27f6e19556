// Package ui renders catalog and search output for the terminal.
//
// A [Palette] holds named [lipgloss.Style] values; album rows are tinted with each album's background color.
package ui
