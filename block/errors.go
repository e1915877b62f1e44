package block

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrStructural     = errors.New("structural invariant violated")
	ErrMissingParent  = errors.New("parent block not found")
	ErrCyclicParent   = errors.New("block is its own ancestor")
	ErrEmptyIdentity  = errors.New("block has no canonical name")
)

// ErrorCode is a machine-readable error classification, used by callers
// that need to branch on error kind without string-matching.
type ErrorCode string

const (
	ECNone             ErrorCode = ""
	ECStructural       ErrorCode = "ERR_STRUCTURAL"
	ECMissingParent    ErrorCode = "ERR_MISSING_PARENT"
	ECCyclicParent     ErrorCode = "ERR_CYCLIC_PARENT"
	ECEmptyIdentity    ErrorCode = "ERR_EMPTY_IDENTITY"
	ECUnknown          ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode, falling back to
// ECUnknown for errors this package did not originate.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrStructural):
		return ECStructural
	case errors.Is(err, ErrMissingParent):
		return ECMissingParent
	case errors.Is(err, ErrCyclicParent):
		return ECCyclicParent
	case errors.Is(err, ErrEmptyIdentity):
		return ECEmptyIdentity
	default:
		return ECUnknown
	}
}
