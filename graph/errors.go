package graph

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrStorage       = errors.New("graph storage error")
	ErrNotFound      = errors.New("graph record not found")
	ErrNoSourceCode  = errors.New("container has no source code to back up")
	ErrNoBackup      = errors.New("no backup available for container")
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	ECNone          ErrorCode = ""
	ECStorage       ErrorCode = "ERR_STORAGE"
	ECNotFound      ErrorCode = "ERR_NOT_FOUND"
	ECNoSourceCode  ErrorCode = "ERR_NO_SOURCE_CODE"
	ECNoBackup      ErrorCode = "ERR_NO_BACKUP"
	ECUnknown       ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrNotFound):
		return ECNotFound
	case errors.Is(err, ErrNoSourceCode):
		return ECNoSourceCode
	case errors.Is(err, ErrNoBackup):
		return ECNoBackup
	case errors.Is(err, ErrStorage):
		return ECStorage
	default:
		return ECUnknown
	}
}
