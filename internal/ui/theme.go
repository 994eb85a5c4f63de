package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hyperengineering/lantern/internal/types"
)

// Lantern CLI theme: a few reusable styles and icons.

const (
	IconLantern = "🏮"
	IconMoon    = "🌙"
	IconDone    = "✅"
	IconTodo    = "⬜"
	IconPlus    = "➕"
	IconTrash   = "🗑️"
	IconPen     = "✍️"
	IconChart   = "📊"
	IconClock   = "🕰️"
	IconError   = "🧨"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("220") // gold
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func Check(done bool) string {
	if done {
		return IconDone
	}
	return IconTodo
}

func CategoryTitle(c types.Category) string {
	switch c {
	case types.CategoryWorship:
		return "🕌 Worship"
	case types.CategoryHealth:
		return "🥗 Health"
	case types.CategoryPersonal:
		return "🌱 Personal"
	default:
		return string(c)
	}
}

// Bar renders ratio in [0,1] as a fixed-width progress bar.
func Bar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case ratio >= 1:
		return Good.Render(bar)
	case ratio >= 0.5:
		return H2.Render(bar)
	case ratio > 0:
		return Warn.Render(bar)
	default:
		return Muted.Render(bar)
	}
}

func Percent(ratio float64) string {
	return fmt.Sprintf("%3.0f%%", ratio*100)
}
