// Package tui runs CodeSpire in a terminal with Bubble Tea.
// It owns the tick loop, maps keys to game actions, shows encounter
// questions in a modal prompt and serves sessions over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(tickRate, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// holdTicks converts a hold duration to ticks at the given rate.
func holdTicks(d time.Duration, tickRate int) int {
	return max(int(d*time.Duration(max(tickRate, 1))/time.Second), 1)
}
