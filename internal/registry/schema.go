package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schema/agents.schema.json
var agentsSchemaBytes []byte

//go:embed schema/flavors.schema.json
var flavorsSchemaBytes []byte

var (
	schemaOnce      sync.Once
	agentsCompiled  *jsonschema.Schema
	flavorsCompiled *jsonschema.Schema
	schemaErr       error
	printer         = message.NewPrinter(language.English)
)

// compileSchemas compiles both embedded schemas once.
func compileSchemas() {
	compile := func(name string, raw []byte) (*jsonschema.Schema, error) {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("unmarshaling %s: %w", name, err)
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(name, doc); err != nil {
			return nil, fmt.Errorf("adding %s: %w", name, err)
		}
		s, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", name, err)
		}
		return s, nil
	}

	agentsCompiled, schemaErr = compile("agents.schema.json", agentsSchemaBytes)
	if schemaErr != nil {
		return
	}
	flavorsCompiled, schemaErr = compile("flavors.schema.json", flavorsSchemaBytes)
}

func agentsSchema() *jsonschema.Schema {
	schemaOnce.Do(compileSchemas)
	return agentsCompiled
}

func flavorsSchema() *jsonschema.Schema {
	schemaOnce.Do(compileSchemas)
	return flavorsCompiled
}

// validateAgainstSchema validates raw YAML bytes against a compiled schema.
// Validation failures are returned as a single error enumerating the
// leaf-level issues, since registry data is small enough to fix in one pass.
func validateAgainstSchema(source string, data []byte, schema *jsonschema.Schema) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return fmt.Errorf("loading registry schemas: %w", schemaErr)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return fmt.Errorf("converting %s to JSON: %w", source, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("preparing %s for validation: %w", source, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validating %s: %w", source, err)
	}

	var issues []string
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = []string{ve.Error()}
	}
	return fmt.Errorf("invalid %s: %s", source, strings.Join(issues, "; "))
}

// collectIssues walks the validation error tree and records leaf errors
// with their instance paths.
func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) == 0 {
		keyword := ""
		if ve.ErrorKind != nil {
			if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
				keyword = kw[len(kw)-1]
			}
		}
		// Skip generic container errors that aren't informative.
		if keyword == "" || keyword == "allOf" || keyword == "$ref" {
			return
		}
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		*issues = append(*issues, fmt.Sprintf("%s: %s", path, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}

// normalizeYAML recursively converts YAML-decoded values to JSON-compatible
// types (yaml.v3 produces map[string]any already, but nested numbers can
// surface as int/int64 which json.Marshal handles uniformly after this pass).
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[k] = normalizeYAML(inner)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, inner := range val {
			a[i] = normalizeYAML(inner)
		}
		return a
	default:
		return val
	}
}
