package util

import (
	"testing"

	"github.com/SeakMengs/AutoSign/internal/constant"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name        string
		roles       []constant.DocumentRole
		permissions []constant.DocumentPermission
		want        bool
	}{
		{"owner can add field", []constant.DocumentRole{constant.DocumentRoleOwner}, []constant.DocumentPermission{constant.FieldAdd}, true},
		{"admin can delete document", []constant.DocumentRole{constant.DocumentRoleAdmin}, []constant.DocumentPermission{constant.DocumentDelete}, true},
		{"signer can read contract", []constant.DocumentRole{constant.DocumentRoleSigner}, []constant.DocumentPermission{constant.ContractRead}, true},
		{"signer cannot add field", []constant.DocumentRole{constant.DocumentRoleSigner}, []constant.DocumentPermission{constant.FieldAdd}, false},
		{"signer cannot read template fields", []constant.DocumentRole{constant.DocumentRoleSigner}, []constant.DocumentPermission{constant.FieldRead}, false},
		{"admin can read template fields", []constant.DocumentRole{constant.DocumentRoleAdmin}, []constant.DocumentPermission{constant.FieldRead}, true},
		{"none has nothing", []constant.DocumentRole{constant.DocumentRoleNone}, []constant.DocumentPermission{constant.DocumentRead}, false},
		{"all permissions required", []constant.DocumentRole{constant.DocumentRoleSigner}, []constant.DocumentPermission{constant.DocumentRead, constant.FieldRemove}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.roles, tt.permissions); got != tt.want {
				t.Errorf("HasPermission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	roles := []constant.DocumentRole{constant.DocumentRoleSigner}
	if !HasRole(roles, []constant.DocumentRole{constant.DocumentRoleOwner, constant.DocumentRoleSigner}) {
		t.Errorf("expected signer role to match")
	}
	if HasRole(roles, []constant.DocumentRole{constant.DocumentRoleOwner}) {
		t.Errorf("expected owner role not to match")
	}
}
