// Package release orchestrates a packaging run: the agent × flavor
// cross-product is composed and packaged on a bounded worker pool, per-pair
// composition failures are isolated and reported, and the manifest is
// committed once, in deterministic order, after every worker finishes.
package release

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/specforge/specforge/internal/archive"
	"github.com/specforge/specforge/internal/compose"
	"github.com/specforge/specforge/internal/manifest"
	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/templates"
)

// Pair statuses reported per (agent, flavor) combination.
const (
	StatusReleased = "released"
	StatusFailed   = "failed"
)

// Options configures one packaging run.
type Options struct {
	// Version is the release tag; must be a valid semantic version,
	// with or without a leading "v".
	Version string

	// OutputDir receives the artifacts and the manifest.
	OutputDir string

	// Agents restricts the run to these agent ids. Empty means all.
	Agents []string

	// Flavors restricts the run to these flavor ids. Empty means every
	// flavor each agent supports.
	Flavors []string

	// Jobs bounds worker parallelism. Zero or negative means GOMAXPROCS.
	Jobs int
}

// PairResult is the outcome for one (agent, flavor) combination.
type PairResult struct {
	Agent    string `json:"agent"`
	Flavor   string `json:"flavor"`
	Status   string `json:"status"`
	Artifact string `json:"artifact,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Files    int    `json:"files,omitempty"`
	Error    string `json:"error,omitempty"`

	// Carried to the manifest/runner, not part of the report protocol.
	size         int64
	packagingErr error
}

// Result is the outcome of a whole run. Pairs keep the deterministic
// iteration order: agents in registration order, flavors in listed order.
type Result struct {
	Version      string       `json:"version"`
	Pairs        []PairResult `json:"pairs"`
	ManifestPath string       `json:"manifest"`
	Released     int          `json:"released"`
	Failed       int          `json:"failed"`
}

// Runner executes packaging runs against a loaded registry and template
// store. Both are read-only and shared across workers without locking.
type Runner struct {
	Registry *registry.Registry
	Store    *templates.Store
}

// ValidateVersion checks that a release tag is a well-formed semantic
// version. The tag is used verbatim in artifact names; only its shape is
// validated.
func ValidateVersion(tag string) error {
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v")); err != nil {
		return fmt.Errorf("invalid version %q: %w", tag, err)
	}
	return nil
}

// ArtifactName returns the deterministic artifact file name for a pair.
func ArtifactName(agentID, flavorID, version string) string {
	return fmt.Sprintf("specforge-kit-%s-%s-%s.zip", agentID, flavorID, version)
}

// Run executes the cross-product. Composition failures mark their pair
// failed and the run continues; packaging and manifest I/O failures abort
// the run, as does context cancellation. A non-nil Result with Failed > 0
// means a partial release: the manifest lists only the released pairs.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}

	pairs, err := r.selectPairs(opts)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// One slot per pair, indexed, so completion order never matters.
	results := make([]PairResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, pair := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runPair(pair, opts)
			if results[i].Status == StatusReleased {
				return nil
			}
			// Packaging I/O failures are fatal; composition failures
			// are the pair's own problem.
			if results[i].packagingErr != nil {
				return results[i].packagingErr
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var artifacts []manifest.Artifact
	res := &Result{Version: opts.Version, Pairs: results}
	for _, pr := range results {
		switch pr.Status {
		case StatusReleased:
			res.Released++
			artifacts = append(artifacts, manifest.Artifact{
				Agent:   pr.Agent,
				Flavor:  pr.Flavor,
				Version: opts.Version,
				File:    pr.Artifact,
				Size:    pr.size,
				SHA256:  pr.SHA256,
				Files:   pr.Files,
			})
		case StatusFailed:
			res.Failed++
		}
	}

	m := manifest.New(opts.Version, artifacts)
	if err := m.Write(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("committing manifest: %w", err)
	}
	res.ManifestPath = manifest.Path(opts.OutputDir, opts.Version)

	return res, nil
}

// selectPairs builds the deterministic pair list for the run, applying
// optional agent and flavor filters. Unknown filter ids fail the run.
func (r *Runner) selectPairs(opts Options) ([]compose.Pair, error) {
	var profiles []registry.AgentProfile
	if len(opts.Agents) == 0 {
		profiles = r.Registry.Agents()
	} else {
		for _, id := range opts.Agents {
			p, err := r.Registry.Agent(id)
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, *p)
		}
	}

	flavorFilter := make(map[string]bool, len(opts.Flavors))
	for _, id := range opts.Flavors {
		if _, err := r.Registry.Flavor(id); err != nil {
			return nil, err
		}
		flavorFilter[id] = true
	}

	var pairs []compose.Pair
	seen := make(map[string]bool)
	for _, profile := range profiles {
		flavors, err := r.Registry.FlavorsFor(&profile)
		if err != nil {
			return nil, err
		}
		for _, flavor := range flavors {
			if len(flavorFilter) > 0 && !flavorFilter[flavor.ID] {
				continue
			}
			pair := compose.Pair{Agent: profile, Flavor: flavor}
			if seen[pair.Key()] {
				return nil, fmt.Errorf("duplicate pair %s in run", pair.Key())
			}
			seen[pair.Key()] = true
			pairs = append(pairs, pair)
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no agent/flavor pairs match the requested filters")
	}
	return pairs, nil
}

// runPair composes and packages one pair.
func (r *Runner) runPair(pair compose.Pair, opts Options) PairResult {
	pr := PairResult{Agent: pair.Agent.ID, Flavor: pair.Flavor.ID}

	tree, err := compose.Render(r.Store, pair, opts.Version)
	if err != nil {
		pr.Status = StatusFailed
		pr.Error = err.Error()
		return pr
	}

	name := ArtifactName(pair.Agent.ID, pair.Flavor.ID, opts.Version)
	size, digest, err := archive.WriteFile(filepath.Join(opts.OutputDir, name), tree)
	if err != nil {
		pr.Status = StatusFailed
		pr.Error = err.Error()
		pr.packagingErr = fmt.Errorf("packaging %s: %w", pair.Key(), err)
		return pr
	}

	pr.Status = StatusReleased
	pr.Artifact = name
	pr.SHA256 = digest
	pr.Files = tree.Len()
	pr.size = size
	return pr
}
