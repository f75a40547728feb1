package model

import "github.com/SeakMengs/AutoSign/internal/constant"

type SignatureField struct {
	BaseModel
	BaseBoxModel

	DocumentID  string             `gorm:"type:text;not null;index" json:"documentId"`
	RoleID      *string            `gorm:"type:text;index" json:"roleId"`
	FieldType   constant.FieldType `gorm:"type:varchar(20);not null" json:"fieldType"`
	IsRequired  bool               `gorm:"type:boolean;not null" json:"isRequired"`
	Label       string             `gorm:"type:varchar(200)" json:"label"`
	SignerEmail string             `gorm:"type:text" json:"signerEmail"`
	SignerName  string             `gorm:"type:text" json:"signerName"`
}

func (sf SignatureField) TableName() string {
	return "signature_fields"
}
