package template

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrUnregisteredLanguage = errors.New("no template table registered for language")
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	ECNone                  ErrorCode = ""
	ECUnregisteredLanguage  ErrorCode = "ERR_UNREGISTERED_LANGUAGE"
	ECUnknown               ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrUnregisteredLanguage):
		return ECUnregisteredLanguage
	default:
		return ECUnknown
	}
}
