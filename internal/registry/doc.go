// Package registry holds the agent adapter registry and the script flavor
// resolver. Both are pure data: agent profiles and flavor definitions are
// YAML documents validated against embedded JSON schemas, loaded once per
// invocation and read-only afterwards. Adding an agent or a flavor is a
// registry entry, never a code change.
package registry
