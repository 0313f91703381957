// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ollama-lan TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	UserText       lipgloss.Style
	AssistantLabel lipgloss.Style
	AssistantText  lipgloss.Style
	SystemLabel    lipgloss.Style
	SystemText     lipgloss.Style
	ErrorText      lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar        lipgloss.Style
	StatusReady      lipgloss.Style
	StatusThinking   lipgloss.Style
	StatusGenerating lipgloss.Style
	StatusError      lipgloss.Style

	// ==========================================================================
	// SIDE PANEL STYLES
	// ==========================================================================

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// MODEL PICKER STYLES
	// ==========================================================================

	PickerBox          lipgloss.Style
	PickerItem         lipgloss.Style
	PickerItemSelected lipgloss.Style

	// Help / hint text
	Hint lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. The mode
// argument forces light or dark rendering; "auto" (or anything else)
// uses terminal background detection.
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	isDark := termenv.HasDarkBackground()
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(UserFg)

	t.UserText = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(UserBorder).
		PaddingLeft(1)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(AssistantFg)

	t.AssistantText = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBorder).
		PaddingLeft(1)

	t.SystemLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(SystemFg)

	t.SystemText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(SystemBorder).
		PaddingLeft(1)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusReady = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusThinking = lipgloss.NewStyle().Foreground(Amber)
	t.StatusGenerating = lipgloss.NewStyle().Foreground(Cyan)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)

	// Side panel (model info, metrics)
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Model picker
	t.PickerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.PickerItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.PickerItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
