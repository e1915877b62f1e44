package validate

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrNoFrontend  = errors.New("no parser frontend registered for language")
	ErrEmptyParse  = errors.New("parser produced no blocks")
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	ECNone        ErrorCode = ""
	ECNoFrontend  ErrorCode = "ERR_NO_FRONTEND"
	ECEmptyParse  ErrorCode = "ERR_EMPTY_PARSE"
	ECUnknown     ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrNoFrontend):
		return ECNoFrontend
	case errors.Is(err, ErrEmptyParse):
		return ECEmptyParse
	default:
		return ECUnknown
	}
}
