package workflow

import (
	"strings"

	"github.com/SeakMengs/AutoSign/internal/constant"
)

// Identity is the verified caller, passed explicitly into every authoring call.
type Identity struct {
	ID    string
	Email string
	Role  constant.UserRole
}

func (i Identity) IsAdmin() bool {
	return i.Role == constant.UserRoleAdmin
}

func (i Identity) normalizedEmail() string {
	return normalizeEmail(i.Email)
}

// ContractAccess is whoever reads a contract: a logged-in caller, a signing-link holder, or both.
type ContractAccess struct {
	Caller *Identity
	// contract signer id carried by the signing link
	SignerID string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
