package ui

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	normalFg = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	cream    = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}

	brightGrayFg = lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"}
	grayFg       = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGrayFg    = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}

	greenFg = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}

	fuchsiaFg     = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	dullFuchsiaFg = lipgloss.AdaptiveColor{Light: "#F793FF", Dark: "#AD58B4"}

	indigoFg    = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	dimIndigoFg = lipgloss.AdaptiveColor{Light: "#9498FF", Dark: "#494690"}

	redFg      = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	faintRedFg = lipgloss.AdaptiveColor{Light: "#FF6F91", Dark: "#C74665"}
)

// Styles.
var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(lipgloss.Color("#EE6FF8")).
			Bold(true).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(indigoFg).
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(grayFg)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(grayFg)

	menuItemStyle = lipgloss.NewStyle().
			Foreground(normalFg).
			PaddingLeft(2)

	selectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(fuchsiaFg).
				PaddingLeft(0)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(brightGrayFg)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(greenFg)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(redFg).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(redFg)

	faintWarningStyle = lipgloss.NewStyle().
				Foreground(faintRedFg)

	hintStyle = lipgloss.NewStyle().
			Foreground(brightGrayFg).
			Italic(true)

	revealStyle = lipgloss.NewStyle().
			Foreground(greenFg).
			Bold(true)

	speedBadgeStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(lipgloss.Color("#7571F9")).
			Padding(0, 1)

	matchedCharStyle = lipgloss.NewStyle().
				Foreground(fuchsiaFg).
				Underline(true)

	dividerDot = subtleStyle.SetString(" • ").String()
)
