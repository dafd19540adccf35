package topic

import "fmt"

// ValidationError reports the first topic invariant violated during
// construction. It is local and final: callers should surface it, never
// retry it.
type ValidationError struct {
	Field   string
	Rule    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("invalid topic: field %s failed %q: %s", e.Field, e.Rule, e.Message)
	}
	return fmt.Sprintf("invalid topic: %s: %s", e.Field, e.Message)
}
