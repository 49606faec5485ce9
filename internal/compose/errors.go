package compose

import (
	"errors"
	"fmt"
)

// Composition failures are scoped to one (agent, flavor) pair; the runner
// reports them and keeps packaging the siblings.
var (
	// ErrDuplicatePath means two templates resolved to the same target
	// path within one composed tree.
	ErrDuplicatePath = errors.New("duplicate target path")

	// ErrUnresolvedToken means a template still contained an uppercase
	// token after substitution.
	ErrUnresolvedToken = errors.New("unresolved token")
)

// PairError wraps a composition failure with the pair it belongs to and,
// when applicable, the template document that triggered it.
type PairError struct {
	AgentID  string
	FlavorID string
	Document string
	Err      error
}

// Error implements the error interface.
func (e *PairError) Error() string {
	if e.Document != "" {
		return fmt.Sprintf("%s/%s: template %q: %v", e.AgentID, e.FlavorID, e.Document, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.AgentID, e.FlavorID, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *PairError) Unwrap() error {
	return e.Err
}
