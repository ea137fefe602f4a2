package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"secure-file-share/internal/model"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		name    string
		role    model.Role
		op      Operation
		allowed bool
	}{
		{"ops can upload", model.RoleOps, OpUpload, true},
		{"client cannot upload", model.RoleClient, OpUpload, false},
		{"ops can list", model.RoleOps, OpListFiles, true},
		{"client can list", model.RoleClient, OpListFiles, true},
		{"client can request download link", model.RoleClient, OpRequestDownloadLink, true},
		{"ops cannot request download link", model.RoleOps, OpRequestDownloadLink, false},
		{"exchange is never session-authorized for ops", model.RoleOps, OpExchangeDownloadToken, false},
		{"exchange is never session-authorized for client", model.RoleClient, OpExchangeDownloadToken, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, Allowed(tc.role, tc.op))
		})
	}
}

func TestAuthorizeDenyIsExplicit(t *testing.T) {
	err := Authorize(model.RoleClient, OpUpload)
	assert.ErrorIs(t, err, model.ErrForbidden)

	assert.NoError(t, Authorize(model.RoleOps, OpUpload))
}

func TestUnknownRoleAndOperationDeny(t *testing.T) {
	assert.False(t, Allowed(model.Role("admin"), OpUpload))
	assert.False(t, Allowed(model.RoleOps, Operation("delete_files")))
}
