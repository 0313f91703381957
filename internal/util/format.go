// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the ollama-lan application.
package util

import (
	"fmt"
	"strconv"
)

// FormatBytes renders a byte count as a humanized size with two decimal
// places ("4.20 GB"). Zero or negative input means the value is unknown
// and the empty string is returned so callers can omit the field.
func FormatBytes(numBytes int64) string {
	if numBytes <= 0 {
		return ""
	}
	size := float64(numBytes)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}
	return fmt.Sprintf("%.2f %s", size, units[idx])
}

// FormatContextLength renders a context window size in the compact form
// users expect: values of 1024 tokens or more become "128k" (or "1.5k"
// when not a whole multiple), smaller values are printed as-is. Zero or
// negative input means the value is unknown and the empty string is
// returned.
func FormatContextLength(value int64) string {
	if value <= 0 {
		return ""
	}
	if value >= 1024 {
		kilo := float64(value) / 1024
		if kilo == float64(int64(kilo)) {
			return strconv.FormatInt(int64(kilo), 10) + "k"
		}
		return fmt.Sprintf("%.1fk", kilo)
	}
	return strconv.FormatInt(value, 10)
}

// FloatToString converts a float64 to string with 2 decimal places.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
