package migrate

import "errors"

// Sentinel errors for programmatic checking.
var (
	ErrNoBackupSource     = errors.New("no containers with source code to back up")
	ErrEliminationIncomplete = errors.New("container still holds source code after elimination")
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

const (
	ECNone                   ErrorCode = ""
	ECNoBackupSource         ErrorCode = "ERR_NO_BACKUP_SOURCE"
	ECEliminationIncomplete  ErrorCode = "ERR_ELIMINATION_INCOMPLETE"
	ECUnknown                ErrorCode = "ERR_UNKNOWN"
)

// CodeFor maps a sentinel error to its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ECNone
	case errors.Is(err, ErrNoBackupSource):
		return ECNoBackupSource
	case errors.Is(err, ErrEliminationIncomplete):
		return ECEliminationIncomplete
	default:
		return ECUnknown
	}
}
