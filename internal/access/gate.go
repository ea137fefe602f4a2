// Package access holds the role policy table. The gate is a pure
// function over two closed enums: no state, safe for concurrent use.
package access

import "secure-file-share/internal/model"

// Operation is one of the role-gated actions a caller can request.
type Operation string

const (
	OpUpload              Operation = "upload"
	OpListFiles           Operation = "list_files"
	OpRequestDownloadLink Operation = "request_download_link"

	// OpExchangeDownloadToken is intentionally absent from the policy
	// table: the exchange endpoint is anonymous and is protected by
	// possession of a valid download token, never by session role.
	OpExchangeDownloadToken Operation = "exchange_download_token"
)

var policy = map[Operation]map[model.Role]struct{}{
	OpUpload: {
		model.RoleOps: {},
	},
	OpListFiles: {
		model.RoleOps:    {},
		model.RoleClient: {},
	},
	OpRequestDownloadLink: {
		model.RoleClient: {},
	},
}

// Allowed reports whether role may perform op.
func Allowed(role model.Role, op Operation) bool {
	roles, known := policy[op]
	if !known {
		return false
	}
	_, ok := roles[role]
	return ok
}

// Authorize returns ErrForbidden when role may not perform op. A deny
// is always an explicit error, never an empty result.
func Authorize(role model.Role, op Operation) error {
	if !Allowed(role, op) {
		return model.ErrForbidden
	}
	return nil
}
