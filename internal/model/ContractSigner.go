package model

import (
	"time"

	"github.com/SeakMengs/AutoSign/internal/constant"
)

// ContractSigner is one invited party of a contract. Email is stored lower-cased,
// (contract_id, email) is unique.
type ContractSigner struct {
	BaseModel
	ContractID string                `gorm:"type:text;not null;uniqueIndex:idx_contract_signers_contract_email" json:"contractId"`
	Email      string                `gorm:"type:text;not null;uniqueIndex:idx_contract_signers_contract_email" json:"email"`
	Name       string                `gorm:"type:varchar(100);not null" json:"name"`
	UserID     *string               `gorm:"type:text;index" json:"userId"`
	RoleID     *string               `gorm:"type:text" json:"roleId"`
	Status     constant.SignerStatus `gorm:"type:varchar(20);not null" json:"status"`
	SignedAt   *time.Time            `json:"signedAt"`

	Signatures []Signature `gorm:"foreignKey:ContractSignerID;constraint:OnDelete:CASCADE;" json:"signatures,omitempty"`
}

func (cs ContractSigner) TableName() string {
	return "contract_signers"
}

func (cs ContractSigner) IsSigned() bool {
	return cs.Status == constant.SignerStatusSigned
}
