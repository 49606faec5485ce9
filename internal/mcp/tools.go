package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge/internal/compose"
	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/release"
	"github.com/specforge/specforge/internal/templates"
)

// --- Shared types ---

// AgentSummary is a simplified agent profile for output.
type AgentSummary struct {
	ID         string   `json:"id"          jsonschema:"agent id"`
	Name       string   `json:"name"        jsonschema:"display name"`
	Prefix     string   `json:"prefix"      jsonschema:"slash-command prefix"`
	CommandDir string   `json:"command_dir" jsonschema:"directory commands are installed to"`
	Flavors    []string `json:"flavors"     jsonschema:"supported script flavor ids"`
}

// FlavorSummary is a simplified script flavor for output.
type FlavorSummary struct {
	ID         string `json:"id"          jsonschema:"flavor id"`
	Name       string `json:"name"        jsonschema:"display name"`
	Extension  string `json:"extension"   jsonschema:"script file extension"`
	LineEnding string `json:"line_ending" jsonschema:"lf or crlf"`
}

// TemplateSummary is a simplified template document for output.
type TemplateSummary struct {
	Name        string   `json:"name"                  jsonschema:"template name"`
	Kind        string   `json:"kind"                  jsonschema:"command, script, or doc"`
	Description string   `json:"description,omitempty" jsonschema:"template description"`
	Flavors     []string `json:"flavors,omitempty"     jsonschema:"flavor allow-list, empty means all"`
	Source      string   `json:"source"                jsonschema:"built-in or the overlay file path"`
}

// FileSummary is one rendered file in a preview.
type FileSummary struct {
	Path string `json:"path" jsonschema:"path inside the package"`
	Size int    `json:"size" jsonschema:"rendered size in bytes"`
	Mode string `json:"mode" jsonschema:"file mode, octal"`
}

// --- list_agents tool ---

// ListAgentsInput is the input for the list_agents tool (no parameters needed).
type ListAgentsInput struct{}

// ListAgentsOutput is the output for the list_agents tool.
type ListAgentsOutput struct {
	Agents []AgentSummary `json:"agents" jsonschema:"registered agent profiles"`
}

func handleListAgents(reg *registry.Registry) mcp.ToolHandlerFor[ListAgentsInput, ListAgentsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListAgentsInput) (*mcp.CallToolResult, ListAgentsOutput, error) {
		return nil, ListAgentsOutput{Agents: toAgentSummaries(reg.Agents())}, nil
	}
}

// --- list_flavors tool ---

// ListFlavorsInput is the input for the list_flavors tool (no parameters needed).
type ListFlavorsInput struct{}

// ListFlavorsOutput is the output for the list_flavors tool.
type ListFlavorsOutput struct {
	Flavors []FlavorSummary `json:"flavors" jsonschema:"registered script flavors"`
}

func handleListFlavors(reg *registry.Registry) mcp.ToolHandlerFor[ListFlavorsInput, ListFlavorsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListFlavorsInput) (*mcp.CallToolResult, ListFlavorsOutput, error) {
		return nil, ListFlavorsOutput{Flavors: toFlavorSummaries(reg.Flavors())}, nil
	}
}

// --- list_templates tool ---

// ListTemplatesInput is the input for the list_templates tool (no parameters needed).
type ListTemplatesInput struct{}

// ListTemplatesOutput is the output for the list_templates tool.
type ListTemplatesOutput struct {
	Count     int               `json:"count"     jsonschema:"number of templates"`
	Templates []TemplateSummary `json:"templates" jsonschema:"template documents, sorted by kind and name"`
}

func handleListTemplates(store *templates.Store) mcp.ToolHandlerFor[ListTemplatesInput, ListTemplatesOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListTemplatesInput) (*mcp.CallToolResult, ListTemplatesOutput, error) {
		docs := store.Documents()
		return nil, ListTemplatesOutput{
			Count:     len(docs),
			Templates: toTemplateSummaries(docs),
		}, nil
	}
}

// --- preview tool ---

// PreviewInput is the input for the preview tool.
type PreviewInput struct {
	Agent   string `json:"agent"             jsonschema:"agent id"`
	Flavor  string `json:"flavor"            jsonschema:"script flavor id"`
	Version string `json:"version,omitempty" jsonschema:"release version for token substitution (default v0.0.0)"`
	Path    string `json:"path,omitempty"    jsonschema:"return the rendered content of this file"`
}

// PreviewOutput is the output for the preview tool.
type PreviewOutput struct {
	Agent   string        `json:"agent"             jsonschema:"agent id"`
	Flavor  string        `json:"flavor"            jsonschema:"script flavor id"`
	Files   []FileSummary `json:"files"             jsonschema:"rendered file tree, sorted by path"`
	Content string        `json:"content,omitempty" jsonschema:"rendered content of the requested path"`
}

func handlePreview(deps Deps) mcp.ToolHandlerFor[PreviewInput, PreviewOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PreviewInput) (*mcp.CallToolResult, PreviewOutput, error) {
		if input.Agent == "" || input.Flavor == "" {
			return nil, PreviewOutput{}, errors.New("agent and flavor are required")
		}

		profile, err := deps.Registry.Agent(input.Agent)
		if err != nil {
			return nil, PreviewOutput{}, err
		}
		flavor, err := deps.Registry.Flavor(input.Flavor)
		if err != nil {
			return nil, PreviewOutput{}, err
		}
		if !profile.SupportsFlavor(flavor.ID) {
			return nil, PreviewOutput{}, fmt.Errorf("agent %s does not support flavor %s", profile.ID, flavor.ID)
		}

		version := input.Version
		if version == "" {
			version = "v0.0.0"
		}

		pair := compose.Pair{Agent: *profile, Flavor: *flavor}
		tree, err := compose.Render(deps.Store, pair, version)
		if err != nil {
			return nil, PreviewOutput{}, err
		}

		out := PreviewOutput{Agent: profile.ID, Flavor: flavor.ID}
		found := input.Path == ""
		for _, f := range tree.Files() {
			out.Files = append(out.Files, FileSummary{
				Path: f.Path,
				Size: len(f.Data),
				Mode: fmt.Sprintf("%#o", f.Mode),
			})
			if input.Path != "" && f.Path == input.Path {
				out.Content = string(f.Data)
				found = true
			}
		}
		if !found {
			return nil, PreviewOutput{}, fmt.Errorf("path %q not in the rendered tree", input.Path)
		}

		return nil, out, nil
	}
}

// --- release tool ---

// ReleaseInput is the input for the release tool.
type ReleaseInput struct {
	Version   string   `json:"version"              jsonschema:"release version, semantic (v1.2.3)"`
	OutputDir string   `json:"output_dir"           jsonschema:"directory to write artifacts and the manifest to"`
	Agents    []string `json:"agents,omitempty"     jsonschema:"restrict to these agent ids"`
	Flavors   []string `json:"flavors,omitempty"    jsonschema:"restrict to these flavor ids"`
	Jobs      int      `json:"jobs,omitempty"       jsonschema:"max parallel packaging workers"`
}

// ReleaseOutput is the output for the release tool.
type ReleaseOutput struct {
	Version  string               `json:"version"  jsonschema:"release version"`
	Released int                  `json:"released" jsonschema:"pairs packaged successfully"`
	Failed   int                  `json:"failed"   jsonschema:"pairs that failed composition"`
	Manifest string               `json:"manifest" jsonschema:"path to the written manifest"`
	Pairs    []release.PairResult `json:"pairs"    jsonschema:"per-pair results"`
}

func handleRelease(deps Deps) mcp.ToolHandlerFor[ReleaseInput, ReleaseOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReleaseInput) (*mcp.CallToolResult, ReleaseOutput, error) {
		if input.Version == "" {
			return nil, ReleaseOutput{}, errors.New("version is required")
		}
		if input.OutputDir == "" {
			return nil, ReleaseOutput{}, errors.New("output_dir is required")
		}

		runner := &release.Runner{Registry: deps.Registry, Store: deps.Store}
		res, err := runner.Run(ctx, release.Options{
			Version:   input.Version,
			OutputDir: input.OutputDir,
			Agents:    input.Agents,
			Flavors:   input.Flavors,
			Jobs:      input.Jobs,
		})
		if err != nil {
			return nil, ReleaseOutput{}, fmt.Errorf("running release: %w", err)
		}

		return nil, ReleaseOutput{
			Version:  res.Version,
			Released: res.Released,
			Failed:   res.Failed,
			Manifest: res.ManifestPath,
			Pairs:    res.Pairs,
		}, nil
	}
}
