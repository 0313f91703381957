// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns raw assistant output into presentable text:
// math notation normalization and markdown rendering.
package render

import (
	"regexp"
	"strings"
)

// Models frequently emit LaTeX-style math wrapped in square brackets,
// which markdown renderers treat as literal text (or a link fragment).
// NormalizeMath rewrites both forms to $$-delimited math. The rewrite
// is presentation-only: callers keep the raw text for replay.

var (
	// Block form:
	//   [
	//     E = mc^{2}
	//   ]
	// Accepts indentation and both [ ... ] and \[ ... \] styles. The
	// trailing newline is captured and re-emitted, which leaves the
	// next block's line start available for another match.
	blockMathPattern = regexp.MustCompile(`(?ms)(^|\n)[ \t]*\\?\[[ \t]*\n(.*?)\n[ \t]*\\?\][ \t]*(\n|$)`)

	// Inline form: [h = \tfrac12 g t^{2}] on a single line. A candidate
	// is any bracket group without nested brackets; it is only
	// rewritten when its content looks like math (see IsMathContent).
	inlineMathPattern = regexp.MustCompile(`\[\s*([^\[\]\n]*)\s*\]`)
)

// IsMathContent reports whether a bracket group's content should be
// treated as math. The heuristic is deliberately narrow: the content
// must contain an equals sign, a caret, an underscore, or a backslash
// escape. Plain bracket text like "[1]" or "[citation needed]" never
// qualifies.
func IsMathContent(s string) bool {
	return strings.ContainsAny(s, `=^_\`)
}

// NormalizeMath canonicalizes line endings and rewrites bracket-style
// math notation to $$-delimited form. The transformation is idempotent:
// already-normalized text passes through unchanged.
func NormalizeMath(text string) string {
	rendered := strings.ReplaceAll(text, "\r\n", "\n")
	rendered = strings.ReplaceAll(rendered, "\r", "\n")

	rendered = blockMathPattern.ReplaceAllStringFunc(rendered, func(match string) string {
		groups := blockMathPattern.FindStringSubmatch(match)
		return groups[1] + "$$\n" + strings.TrimSpace(groups[2]) + "\n$$" + groups[3]
	})

	rendered = inlineMathPattern.ReplaceAllStringFunc(rendered, func(match string) string {
		groups := inlineMathPattern.FindStringSubmatch(match)
		content := strings.TrimSpace(groups[1])
		if !IsMathContent(content) {
			return match
		}
		return "$$" + content + "$$"
	})

	return rendered
}
