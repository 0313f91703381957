// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ollama-lan TUI.

This package defines the color palette and styled components used
throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Accent Colors

  - Cyan - Brand color, header, commands
  - Purple - Assistant messages and selections
  - Emerald - Ready status and success states
  - Amber - Thinking status and caution states
  - Rose - Errors and unreachable server

## Surface and Text Colors

Layered surface and hierarchical text tokens:

	Surface     - Main background
	SurfaceDim  - Subtle backgrounds (headers, status bars)
	Overlay     - Borders and separators
	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text

# Theme System (theme.go)

The Theme struct provides runtime color adaptation. The mode argument
comes from the ui.theme config setting:

	theme := styles.NewTheme("auto")
	if theme.IsDark {
		// Dark terminal detected (or forced via config)
	}

# Usage Example

	import "github.com/jeranaias/ollama-lan/internal/ui/styles"

	theme := styles.NewTheme(cfg.UI.Theme)
	header := theme.Header.Render("ollama-lan")
	status := theme.StatusReady.Render(label)
*/
package styles
