package constant

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type DocumentRole int

const (
	DocumentRoleOwner DocumentRole = iota
	DocumentRoleAdmin
	DocumentRoleSigner
	DocumentRoleNone
)

type DocumentPermission string

const (
	DocumentRead          DocumentPermission = "document:read"
	DocumentDelete        DocumentPermission = "document:delete"
	FieldRead             DocumentPermission = "field:read"
	FieldAdd              DocumentPermission = "field:add"
	FieldUpdate           DocumentPermission = "field:update"
	FieldRemove           DocumentPermission = "field:remove"
	RoleAdd               DocumentPermission = "role:add"
	RoleRemove            DocumentPermission = "role:remove"
	ContractCreate        DocumentPermission = "contract:create"
	ContractRead          DocumentPermission = "contract:read"
	ContractSignerLinkGet DocumentPermission = "contract:signer:link"
)
