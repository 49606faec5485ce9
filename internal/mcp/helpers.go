package mcp

import (
	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/templates"
)

// toAgentSummaries converts agent profiles to AgentSummary slice.
func toAgentSummaries(profiles []registry.AgentProfile) []AgentSummary {
	result := make([]AgentSummary, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, AgentSummary{
			ID:         p.ID,
			Name:       p.Name,
			Prefix:     p.Prefix,
			CommandDir: p.CommandDir,
			Flavors:    p.Flavors,
		})
	}
	return result
}

// toFlavorSummaries converts script flavors to FlavorSummary slice.
func toFlavorSummaries(flavors []registry.ScriptFlavor) []FlavorSummary {
	result := make([]FlavorSummary, 0, len(flavors))
	for _, f := range flavors {
		result = append(result, FlavorSummary{
			ID:         f.ID,
			Name:       f.Name,
			Extension:  f.Extension,
			LineEnding: f.LineEnding,
		})
	}
	return result
}

// toTemplateSummaries converts template documents to TemplateSummary slice.
func toTemplateSummaries(docs []templates.Document) []TemplateSummary {
	result := make([]TemplateSummary, 0, len(docs))
	for _, d := range docs {
		result = append(result, TemplateSummary{
			Name:        d.Name,
			Kind:        d.Kind,
			Description: d.Description,
			Flavors:     d.Flavors,
			Source:      d.Source,
		})
	}
	return result
}
