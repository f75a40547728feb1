package util

import (
	"slices"

	"github.com/SeakMengs/AutoSign/internal/constant"
)

var rolePermissions = map[constant.DocumentRole][]constant.DocumentPermission{
	constant.DocumentRoleOwner: {
		constant.DocumentRead,
		constant.DocumentDelete,
		constant.FieldRead,
		constant.FieldAdd,
		constant.FieldUpdate,
		constant.FieldRemove,
		constant.RoleAdd,
		constant.RoleRemove,
		constant.ContractCreate,
		constant.ContractRead,
		constant.ContractSignerLinkGet,
	},
	constant.DocumentRoleAdmin: {
		constant.DocumentRead,
		constant.DocumentDelete,
		constant.FieldRead,
		constant.FieldAdd,
		constant.FieldUpdate,
		constant.FieldRemove,
		constant.RoleAdd,
		constant.RoleRemove,
		constant.ContractCreate,
		constant.ContractRead,
		constant.ContractSignerLinkGet,
	},
	constant.DocumentRoleSigner: {
		constant.DocumentRead,
		constant.ContractRead,
	},
	constant.DocumentRoleNone: {},
}

// checks if all permissions are granted by at least one of the roles.
func HasPermission(roles []constant.DocumentRole, permissions []constant.DocumentPermission) bool {
	for _, permission := range permissions {
		hasPermission := false
		for _, role := range roles {
			if slices.Contains(rolePermissions[role], permission) {
				hasPermission = true
				break
			}
		}
		if !hasPermission {
			return false
		}
	}
	return true
}

func HasRole(roles []constant.DocumentRole, requiredRoles []constant.DocumentRole) bool {
	for _, role := range requiredRoles {
		if slices.Contains(roles, role) {
			return true
		}
	}
	return false
}
