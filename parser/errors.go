package parser

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrSyntax              = errors.New("syntax error in source")
	ErrParse               = errors.New("failed to parse source")
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	ECNone                 ErrorCode = ""
	ECUnsupportedLanguage  ErrorCode = "ERR_UNSUPPORTED_LANGUAGE"
	ECSyntax               ErrorCode = "ERR_SYNTAX"
	ECParse                ErrorCode = "ERR_PARSE"
	ECUnknown              ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrUnsupportedLanguage):
		return ECUnsupportedLanguage
	case errors.Is(err, ErrSyntax):
		return ECSyntax
	case errors.Is(err, ErrParse):
		return ECParse
	default:
		return ECUnknown
	}
}
