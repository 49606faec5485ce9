// Package compose renders the template store for one (agent, flavor) pair
// into a fully resolved tree. Rendering is pure and order-independent;
// failures are scoped to the pair so one bad combination never blocks the
// rest of a release.
package compose
