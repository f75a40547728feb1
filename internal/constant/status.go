package constant

type DocumentStatus string

const (
	DocumentStatusDraft      DocumentStatus = "draft"
	DocumentStatusTemplated  DocumentStatus = "templated"
	DocumentStatusContracted DocumentStatus = "contracted"
)

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusCompleted ContractStatus = "completed"
)

type SignerStatus string

const (
	SignerStatusPending SignerStatus = "pending"
	SignerStatusSigned  SignerStatus = "signed"
)

type FieldType string

const (
	FieldTypeSignature FieldType = "signature"
	FieldTypeDate      FieldType = "date"
	FieldTypeText      FieldType = "text"
	FieldTypeInitials  FieldType = "initials"
)

func (ft FieldType) IsValid() bool {
	switch ft {
	case FieldTypeSignature, FieldTypeDate, FieldTypeText, FieldTypeInitials:
		return true
	}
	return false
}

type ContractAction string

const (
	ContractActionCreated            ContractAction = "contract.created"
	ContractActionSignatureSubmitted ContractAction = "signature.submitted"
	ContractActionCompleted          ContractAction = "contract.completed"
)
