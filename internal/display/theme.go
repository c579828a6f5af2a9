package display

import "github.com/charmbracelet/lipgloss"

// Colors is the terminal palette used by the report renderer.
type Colors struct {
	Green     lipgloss.AdaptiveColor
	Yellow    lipgloss.AdaptiveColor
	Red       lipgloss.AdaptiveColor
	Blue      lipgloss.AdaptiveColor
	MutedText lipgloss.AdaptiveColor
}

// DefaultColors adapts to light and dark terminals.
var DefaultColors = Colors{
	Green:     lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#a6e3a1"},
	Yellow:    lipgloss.AdaptiveColor{Light: "#b26a00", Dark: "#f9e2af"},
	Red:       lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#f38ba8"},
	Blue:      lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#89b4fa"},
	MutedText: lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"},
}

const (
	iconAccepted = "✓"
	iconRejected = "✗"
	iconFailed   = "⚠"
	iconSection  = "§"
)
