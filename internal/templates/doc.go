// Package templates is the canonical template store: the agent-agnostic
// workflow commands, helper scripts, and memory documents that get rendered
// per (agent, flavor) pair. Builtins are embedded; a user overlay directory
// can replace or extend them. Documents are validated at load and immutable
// afterwards.
package templates
