package model

type Document struct {
	BaseModel
	OwnerID      string `gorm:"type:text;not null;index" json:"ownerId"`
	FileName     string `gorm:"type:text;not null" json:"fileName"`
	OriginalName string `gorm:"type:text;not null" json:"originalName"`
	MimeType     string `gorm:"type:varchar(100);not null" json:"mimeType"`
	Size         int64  `gorm:"type:bigint;not null" json:"size"`
	PageCount    int    `gorm:"type:integer;not null" json:"pageCount"`
	BucketName   string `gorm:"type:text" json:"-"`
	ObjectKey    string `gorm:"type:text" json:"-"`
	// Copy of the uploaded bytes, only read when the blob storage cannot serve the object.
	FileContent []byte `json:"-"`

	SignerRoles []SignerRole `gorm:"constraint:OnDelete:CASCADE;" json:"signerRoles,omitempty"`
	Contracts   []Contract   `json:"contracts,omitempty"`
}

func (d Document) TableName() string {
	return "documents"
}
