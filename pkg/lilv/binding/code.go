package binding

import (
	"errors"
	"fmt"

	"github.com/gramotor/lilv-go/pkg/lilv"
)

var (
	// ErrInvalidArgument reports a malformed boundary call, such as a key that
	// cannot be read from guest memory.
	ErrInvalidArgument = errors.New("binding: invalid argument")

	// ErrInternal stands in for failures that have no dedicated code, such as
	// native teardown errors reported after cleanup.
	ErrInternal = errors.New("binding: internal error")
)

// Code is the error-reporting convention at the boundary. CodeOK is zero and
// every failure is negative.
type Code int32

const (
	CodeOK              Code = 0
	CodeInitialization  Code = -1
	CodeInvalidHandle   Code = -2
	CodeNodeResolution  Code = -3
	CodeIndexOutOfRange Code = -4
	CodeNotBuilt        Code = -5
	CodeInvalidArgument Code = -6
	CodeInternal        Code = -7
)

// CodeOf classifies err. ErrNotBuilt is checked before ErrInitialization
// because a missing backend reports both.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, lilv.ErrNotBuilt):
		return CodeNotBuilt
	case errors.Is(err, lilv.ErrInitialization):
		return CodeInitialization
	case errors.Is(err, lilv.ErrInvalidHandle):
		return CodeInvalidHandle
	case errors.Is(err, lilv.ErrIndexOutOfRange):
		return CodeIndexOutOfRange
	case errors.Is(err, lilv.ErrNodeResolution):
		return CodeNodeResolution
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	default:
		return CodeInternal
	}
}

// Err returns the sentinel matching c, or nil for CodeOK.
func (c Code) Err() error {
	switch c {
	case CodeOK:
		return nil
	case CodeInitialization:
		return lilv.ErrInitialization
	case CodeInvalidHandle:
		return lilv.ErrInvalidHandle
	case CodeNodeResolution:
		return lilv.ErrNodeResolution
	case CodeIndexOutOfRange:
		return lilv.ErrIndexOutOfRange
	case CodeNotBuilt:
		return lilv.ErrNotBuilt
	case CodeInvalidArgument:
		return ErrInvalidArgument
	default:
		return ErrInternal
	}
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInitialization:
		return "initialization"
	case CodeInvalidHandle:
		return "invalid_handle"
	case CodeNodeResolution:
		return "node_resolution"
	case CodeIndexOutOfRange:
		return "index_out_of_range"
	case CodeNotBuilt:
		return "not_built"
	case CodeInvalidArgument:
		return "invalid_argument"
	case CodeInternal:
		return "internal"
	default:
		return fmt.Sprintf("Code(%d)", int32(c))
	}
}
