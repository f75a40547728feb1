package model

// BaseBoxModel places a box on a document page. Position and size are percentages
// of the page width/height (0-100) so they do not depend on the rendering resolution.
type BaseBoxModel struct {
	PageNumber int     `gorm:"type:integer;not null" json:"pageNumber"`
	PositionX  float64 `gorm:"type:double precision;not null" json:"positionX"`
	PositionY  float64 `gorm:"type:double precision;not null" json:"positionY"`
	Width      float64 `gorm:"type:double precision;not null" json:"width"`
	Height     float64 `gorm:"type:double precision;not null" json:"height"`
}
