package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C6FF0")
	secondaryColor = lipgloss.Color("#4ECDC4")
	accentColor    = lipgloss.Color("#FFE66D")
	mutedColor     = lipgloss.Color("#6C757D")
	successColor   = lipgloss.Color("#2ECC71")
	errorColor     = lipgloss.Color("#E74C3C")
	fgColor        = lipgloss.Color("#EAEAEA")

	// Header and tabs
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	connectedStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	disconnectedStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	// Message list
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#2D2D44")).
				Foreground(accentColor).
				Bold(true)

	normalRowStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	// Detail panel
	detailPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(1)

	fieldNameStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	dividerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Help bar
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	// Facet chips
	facetActiveStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	facetInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// JSON syntax highlighting
	jsonKeyStyle    = lipgloss.NewStyle().Foreground(secondaryColor)
	jsonStringStyle = lipgloss.NewStyle().Foreground(successColor)
	jsonNumberStyle = lipgloss.NewStyle().Foreground(accentColor)
	jsonBoolStyle   = lipgloss.NewStyle().Foreground(primaryColor)
	jsonNullStyle   = lipgloss.NewStyle().Foreground(mutedColor)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	confirmationStyle = lipgloss.NewStyle().
				Foreground(successColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)
