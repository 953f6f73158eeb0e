// Package severity maps administrative levels onto backend logger levels and
// back.
//
// The two vocabularies differ at the edges: AUDIT has no backend counterpart
// and is treated as TRACE, the backend's ALL becomes TRACE on the admin side,
// and OFF has no admin value at all. Anything unrecognised maps to WARN.
package severity

import (
	"logbridge/internal/admin"
	"logbridge/internal/logging"
)

// ToBackend converts an admin level to the backend level used for filtering.
func ToBackend(level admin.Level) logging.Level {
	switch level {
	case admin.LevelAudit, admin.LevelTrace:
		return logging.LevelTrace
	case admin.LevelDebug:
		return logging.LevelDebug
	case admin.LevelInfo:
		return logging.LevelInfo
	case admin.LevelWarn:
		return logging.LevelWarn
	case admin.LevelError:
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}

// ToAdmin converts a backend level to its admin counterpart. It returns false
// for OFF, which callers express by removing the admin entry.
func ToAdmin(level logging.Level) (admin.Level, bool) {
	switch level {
	case logging.LevelOff:
		return 0, false
	case logging.LevelAll, logging.LevelTrace:
		return admin.LevelTrace, true
	case logging.LevelDebug:
		return admin.LevelDebug, true
	case logging.LevelInfo:
		return admin.LevelInfo, true
	case logging.LevelWarn:
		return admin.LevelWarn, true
	case logging.LevelError:
		return admin.LevelError, true
	default:
		return admin.LevelWarn, true
	}
}
