package model

// SignerRole is a named slot ("Tenant", "Landlord") declared on a document template.
// Fields point at a role and a contract binds every role to one concrete signer.
type SignerRole struct {
	BaseModel
	DocumentID string `gorm:"type:text;not null;uniqueIndex:idx_signer_roles_document_label" json:"documentId"`
	Label      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_signer_roles_document_label" json:"label"`
	SortOrder  int    `gorm:"type:integer;not null" json:"sortOrder"`
}

func (sr SignerRole) TableName() string {
	return "signer_roles"
}
