package suggest

import "fmt"

// Adapter failure stages.
const (
	StageCall  = "call"  // transport or model failure
	StageParse = "parse" // reply was not the expected JSON shape
	StageEmpty = "empty" // reply parsed but carried no usable content
)

// AdapterError reports a failed suggestion with the stage it failed
// at, so callers can tell a dead backend from a misbehaving model.
type AdapterError struct {
	Op    string
	Stage string
	Err   error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s failed: %v", e.Op, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %s failed", e.Op, e.Stage)
}

func (e *AdapterError) Unwrap() error { return e.Err }
