package cli

import (
	"github.com/charmbracelet/lipgloss"

	"fintrack/internal/finance"
)

var (
	AccentColor  = lipgloss.Color("#4ECDC4")
	SuccessColor = lipgloss.Color("#2ECC71")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	HeaderStyle = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
)

// StatusStyle colours a budget status.
func StatusStyle(s finance.Status) lipgloss.Style {
	switch s {
	case finance.OverBudget:
		return ErrorStyle
	case finance.NearLimit:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
