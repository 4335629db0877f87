package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/transcriptor/internal/config"
	"github.com/handiism/transcriptor/internal/normalize"
)

// statusStyles are the status colors from the settings file.
type statusStyles struct {
	gray   lipgloss.Style
	red    lipgloss.Style
	green  lipgloss.Style
	yellow lipgloss.Style
}

func newStatusStyles(s *config.Settings) statusStyles {
	fg := func(name string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(colorFor(name))
	}
	return statusStyles{
		gray:   fg(s.StatusColorGray),
		red:    fg(s.StatusColorRed),
		green:  fg(s.StatusColorGreen),
		yellow: fg(s.StatusColorYellow),
	}
}

func (s statusStyles) forLevel(level normalize.EventLevel) lipgloss.Style {
	switch level {
	case normalize.LevelError:
		return s.red
	case normalize.LevelWarning:
		return s.yellow
	case normalize.LevelSuccess:
		return s.green
	case normalize.LevelInfo:
		return infoStyle
	default:
		return s.gray
	}
}

// colorFor maps the color names used in settings files to terminal colors.
// Hex values and ANSI numbers pass through unchanged.
func colorFor(name string) lipgloss.Color {
	switch name {
	case "gray", "grey":
		return lipgloss.Color("8")
	case "red":
		return lipgloss.Color("9")
	case "green":
		return lipgloss.Color("10")
	case "yellow":
		return lipgloss.Color("11")
	case "blue":
		return lipgloss.Color("12")
	case "white":
		return lipgloss.Color("15")
	case "black":
		return lipgloss.Color("0")
	}
	return lipgloss.Color(name)
}
