package remotestore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperation is returned for operations the remote store client
// does not translate. DELETE against the voucher tables is intentionally not
// implemented; rows are soft-lifecycled through their status column.
var ErrUnsupportedOperation = errors.New("remotestore: unsupported operation for this query")

// ErrNotConfigured is returned when remote store credentials are missing
var ErrNotConfigured = errors.New("remotestore: client not configured")

// StoreError is a failure reported by the remote table store
type StoreError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("remotestore: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// PermissionDenied reports whether the failure looks like a row-level-security
// or API-key permission problem. Read paths degrade these to empty result sets
// instead of failing the request.
func (e *StoreError) PermissionDenied() bool {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return true
	}
	if e.Code == "PGRST301" {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "permission") || strings.Contains(msg, "rls") ||
		strings.Contains(msg, "row-level security")
}
