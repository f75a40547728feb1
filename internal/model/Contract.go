package model

import (
	"time"

	"github.com/SeakMengs/AutoSign/internal/constant"
)

type Contract struct {
	BaseModel
	DocumentID  string                  `gorm:"type:text;not null;index" json:"documentId"`
	Title       string                  `gorm:"type:varchar(200);not null" json:"title"`
	Description string                  `gorm:"type:text" json:"description"`
	Status      constant.ContractStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedByID string                  `gorm:"type:text;not null" json:"createdById"`
	CompletedAt *time.Time              `json:"completedAt"`

	Document *Document        `json:"document,omitempty"`
	Signers  []ContractSigner `gorm:"constraint:OnDelete:CASCADE;" json:"signers,omitempty"`
}

func (c Contract) TableName() string {
	return "contracts"
}

func (c Contract) IsCompleted() bool {
	return c.Status == constant.ContractStatusCompleted
}
