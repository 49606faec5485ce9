package registry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Lookup errors. Callers wrap these with the offending id via %w.
var (
	ErrUnknownAgent  = errors.New("unknown agent")
	ErrUnknownFlavor = errors.New("unknown flavor")
)

//go:embed config/agents.yaml
var builtinAgents []byte

//go:embed config/flavors.yaml
var builtinFlavors []byte

// Registry is the loaded agent adapter registry and script flavor resolver.
// It is immutable after load and safe for concurrent readers.
type Registry struct {
	agents     []AgentProfile
	agentIndex map[string]int
	flavors    []ScriptFlavor
	flavorIdx  map[string]int
}

// agentsFile is the on-disk shape of agents.yaml.
type agentsFile struct {
	Agents []AgentProfile `yaml:"agents"`
}

// flavorsFile is the on-disk shape of flavors.yaml.
type flavorsFile struct {
	Flavors []ScriptFlavor `yaml:"flavors"`
}

// LoadBuiltin loads the embedded registry data.
func LoadBuiltin() (*Registry, error) {
	return Parse(builtinAgents, builtinFlavors)
}

// Load loads the embedded registry and applies overlays from dir, if any.
// Overlay files are dir/agents.yaml and dir/flavors.yaml. An overlay entry
// with a new id is appended in file order; an entry reusing a built-in id
// replaces that entry in place, so registration order stays stable.
func Load(dir string) (*Registry, error) {
	reg, err := Parse(builtinAgents, builtinFlavors)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return reg, nil
	}

	if data, err := os.ReadFile(filepath.Join(dir, "agents.yaml")); err == nil {
		if err := reg.overlayAgents(data); err != nil {
			return nil, err
		}
	}
	if data, err := os.ReadFile(filepath.Join(dir, "flavors.yaml")); err == nil {
		if err := reg.overlayFlavors(data); err != nil {
			return nil, err
		}
	}

	if err := reg.checkFlavorRefs(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Parse builds a registry from raw agents.yaml and flavors.yaml bytes.
// Both documents are schema-validated before decoding.
func Parse(agentsYAML, flavorsYAML []byte) (*Registry, error) {
	if err := validateAgainstSchema("agents.yaml", agentsYAML, agentsSchema()); err != nil {
		return nil, err
	}
	if err := validateAgainstSchema("flavors.yaml", flavorsYAML, flavorsSchema()); err != nil {
		return nil, err
	}

	var af agentsFile
	if err := yaml.Unmarshal(agentsYAML, &af); err != nil {
		return nil, fmt.Errorf("parsing agents.yaml: %w", err)
	}
	var ff flavorsFile
	if err := yaml.Unmarshal(flavorsYAML, &ff); err != nil {
		return nil, fmt.Errorf("parsing flavors.yaml: %w", err)
	}

	reg := &Registry{
		agentIndex: make(map[string]int),
		flavorIdx:  make(map[string]int),
	}
	for _, f := range ff.Flavors {
		if _, dup := reg.flavorIdx[f.ID]; dup {
			return nil, fmt.Errorf("flavors.yaml: duplicate flavor id %q", f.ID)
		}
		reg.flavorIdx[f.ID] = len(reg.flavors)
		reg.flavors = append(reg.flavors, f)
	}
	for _, a := range af.Agents {
		if _, dup := reg.agentIndex[a.ID]; dup {
			return nil, fmt.Errorf("agents.yaml: duplicate agent id %q", a.ID)
		}
		reg.agentIndex[a.ID] = len(reg.agents)
		reg.agents = append(reg.agents, a)
	}

	if err := reg.checkFlavorRefs(); err != nil {
		return nil, err
	}
	return reg, nil
}

// overlayAgents merges overlay agent profiles into the registry.
func (r *Registry) overlayAgents(data []byte) error {
	if err := validateAgainstSchema("agents.yaml overlay", data, agentsSchema()); err != nil {
		return err
	}
	var af agentsFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return fmt.Errorf("parsing agents.yaml overlay: %w", err)
	}
	for _, a := range af.Agents {
		if i, ok := r.agentIndex[a.ID]; ok {
			r.agents[i] = a
			continue
		}
		r.agentIndex[a.ID] = len(r.agents)
		r.agents = append(r.agents, a)
	}
	return nil
}

// overlayFlavors merges overlay flavor definitions into the registry.
func (r *Registry) overlayFlavors(data []byte) error {
	if err := validateAgainstSchema("flavors.yaml overlay", data, flavorsSchema()); err != nil {
		return err
	}
	var ff flavorsFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return fmt.Errorf("parsing flavors.yaml overlay: %w", err)
	}
	for _, f := range ff.Flavors {
		if i, ok := r.flavorIdx[f.ID]; ok {
			r.flavors[i] = f
			continue
		}
		r.flavorIdx[f.ID] = len(r.flavors)
		r.flavors = append(r.flavors, f)
	}
	return nil
}

// checkFlavorRefs verifies every profile's flavor list resolves.
func (r *Registry) checkFlavorRefs() error {
	for _, a := range r.agents {
		for _, id := range a.Flavors {
			if _, ok := r.flavorIdx[id]; !ok {
				return fmt.Errorf("agent %q: %w: %q", a.ID, ErrUnknownFlavor, id)
			}
		}
	}
	return nil
}

// Agents returns all profiles in registration order.
func (r *Registry) Agents() []AgentProfile {
	out := make([]AgentProfile, len(r.agents))
	copy(out, r.agents)
	return out
}

// Agent resolves a profile by id.
func (r *Registry) Agent(id string) (*AgentProfile, error) {
	i, ok := r.agentIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, id)
	}
	a := r.agents[i]
	return &a, nil
}

// Flavors returns all flavor definitions in registration order.
func (r *Registry) Flavors() []ScriptFlavor {
	out := make([]ScriptFlavor, len(r.flavors))
	copy(out, r.flavors)
	return out
}

// Flavor resolves a flavor by id.
func (r *Registry) Flavor(id string) (*ScriptFlavor, error) {
	i, ok := r.flavorIdx[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlavor, id)
	}
	f := r.flavors[i]
	return &f, nil
}

// FlavorsFor returns the flavors an agent supports, in the profile's
// listed order.
func (r *Registry) FlavorsFor(p *AgentProfile) ([]ScriptFlavor, error) {
	out := make([]ScriptFlavor, 0, len(p.Flavors))
	for _, id := range p.Flavors {
		f, err := r.Flavor(id)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", p.ID, err)
		}
		out = append(out, *f)
	}
	return out, nil
}
