package tui

import "github.com/charmbracelet/lipgloss"

const (
	PrimaryColor lipgloss.Color = "#6b84ff"
	SuccessColor lipgloss.Color = "#27ab83"
	ErrorColor   lipgloss.Color = "#df4e45"
	WarningColor lipgloss.Color = "#f0b429"
	GreyColor    lipgloss.Color = "#777b7d"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	BoxStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Background(PrimaryColor).
			Foreground(lipgloss.Color("white"))

	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(GreyColor)

	LabelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(GreyColor)

	FocusedStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(GreyColor).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Padding(1, 0).
			Foreground(GreyColor)
)

var toastColors = map[string]lipgloss.Color{
	"success": SuccessColor,
	"error":   ErrorColor,
	"warning": WarningColor,
	"info":    PrimaryColor,
}

func toastStyle(kind string) lipgloss.Style {
	color, ok := toastColors[kind]
	if !ok {
		color = GreyColor
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Background(color).
		Foreground(lipgloss.Color("white"))
}
