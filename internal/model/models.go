// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// and model metadata.
package model

import (
	"strings"

	"github.com/jeranaias/ollama-lan/internal/ollama"
	"github.com/jeranaias/ollama-lan/internal/util"
)

// =============================================================================
// MODEL METADATA
// =============================================================================

// Metadata describes one installed model, merged from the /api/tags
// listing and, opportunistically, the /api/ps runtime probe.
type Metadata struct {
	// From /api/tags
	Name              string `json:"name"`
	Size              int64  `json:"size"`
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`

	// From /api/ps, zero until the model has served a turn
	SizeVRAM      int64 `json:"size_vram"`
	ContextLength int64 `json:"context_length"`
}

// MetadataFromInfo builds Metadata from a registry listing entry.
func MetadataFromInfo(info ollama.ModelInfo) Metadata {
	return Metadata{
		Name:              info.Name,
		Size:              info.Size,
		Family:            info.Details.Family,
		ParameterSize:     info.Details.ParameterSize,
		QuantizationLevel: info.Details.QuantizationLevel,
	}
}

// Map holds metadata for every known model, keyed by name.
type Map map[string]Metadata

// NewMap builds a metadata map from a registry listing.
func NewMap(models []ollama.ModelInfo) Map {
	m := make(Map, len(models))
	for _, info := range models {
		m[info.Name] = MetadataFromInfo(info)
	}
	return m
}

// Names returns the model names in listing order.
func Names(models []ollama.ModelInfo) []string {
	names := make([]string, 0, len(models))
	for _, info := range models {
		names = append(names, info.Name)
	}
	return names
}

// MergePs folds a /api/ps entry into the map. Only fields the probe
// actually reported overwrite existing metadata; a nil entry is a no-op.
func (m Map) MergePs(name string, entry *ollama.PsModel) {
	if entry == nil {
		return
	}
	meta := m[name]
	if meta.Name == "" {
		meta.Name = name
	}
	if entry.ContextLength > 0 {
		meta.ContextLength = entry.ContextLength
	}
	if entry.SizeVRAM > 0 {
		meta.SizeVRAM = entry.SizeVRAM
	}
	m[name] = meta
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

// ChooseModel picks the active model from the available names: the
// preferred model when it is actually installed, otherwise the first
// name. Callers must not pass an empty names slice.
func ChooseModel(names []string, preferred string) string {
	if preferred != "" {
		for _, name := range names {
			if name == preferred {
				return preferred
			}
		}
	}
	return names[0]
}

// =============================================================================
// MODEL INFO PANEL
// =============================================================================

// BuildModelInfo renders the selected-model panel as markdown. Fields
// with unknown values are omitted rather than shown as zeros.
func BuildModelInfo(selected string, m Map) string {
	if selected == "" {
		return "### Selected Model\nNo model selected."
	}

	meta, ok := m[selected]
	if !ok {
		return "### Selected Model\n`" + selected + "` metadata unavailable."
	}

	lines := []string{"### " + selected}
	for _, field := range []struct {
		label string
		value string
	}{
		{"Family", meta.Family},
		{"Parameters", meta.ParameterSize},
		{"Quantization", meta.QuantizationLevel},
		{"VRAM size", util.FormatBytes(meta.SizeVRAM)},
		{"Context length", util.FormatContextLength(meta.ContextLength)},
	} {
		if field.value != "" {
			lines = append(lines, "- "+field.label+": **"+field.value+"**")
		}
	}
	return strings.Join(lines, "\n")
}
