package lilv

import (
	"errors"
	"fmt"

	"github.com/gramotor/lilv-go/pkg/lilv/internal/backend"
)

var (
	// ErrInitialization reports that the native world constructor failed. The
	// attempt leaves nothing allocated and may be retried from scratch.
	ErrInitialization = errors.New("lilv: world initialization failed")

	// ErrInvalidHandle reports a World or Node that is not alive, or a Node
	// used with a World that does not own it.
	ErrInvalidHandle = errors.New("lilv: invalid handle")

	// ErrNodeResolution reports that the native library could not materialize
	// a node. Failures are not cached; the next lookup retries.
	ErrNodeResolution = errors.New("lilv: node resolution failed")

	// ErrIndexOutOfRange reports an identifier outside the static table.
	ErrIndexOutOfRange = errors.New("lilv: identifier index out of range")

	// ErrNotBuilt reports that the native bindings were not linked into the
	// current binary.
	ErrNotBuilt = errors.New("lilv: native bindings not built")
)

// Error wraps one of the package sentinels with the operation that failed.
type Error struct {
	Op     string // Operation that failed
	Detail string // Optional context, e.g. the identifier
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("lilv.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("lilv.%s %s: %v", e.Op, e.Detail, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, err error, detail string) error {
	return &Error{Op: op, Detail: detail, Err: err}
}

// remapError converts backend errors to public API errors.
func remapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrNotBuilt) {
		return ErrNotBuilt
	}
	return err
}
