package model

// Signature is an immutable ledger entry. The unique index on contract_signer_id caps it
// at one entry per signer.
type Signature struct {
	BaseModel
	BaseBoxModel

	ContractSignerID string `gorm:"type:text;not null;uniqueIndex" json:"contractSignerId"`
	SignatureData    string `gorm:"type:text;not null" json:"signatureData"`
	DataHash         string `gorm:"type:varchar(64);not null" json:"dataHash"`
	IPAddress        string `gorm:"type:varchar(64)" json:"ipAddress"`
	UserAgent        string `gorm:"type:text" json:"userAgent"`

	Signer *ContractSigner `gorm:"foreignKey:ContractSignerID" json:"signer,omitempty"`
}

func (s Signature) TableName() string {
	return "signatures"
}
