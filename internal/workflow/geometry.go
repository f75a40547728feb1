package workflow

import (
	"math"

	"github.com/SeakMengs/AutoSign/internal/model"
)

// Box is a rectangle on a page. Coordinates and size are percentages of the page (0-100).
type Box struct {
	PageNumber int     `json:"pageNumber"`
	PositionX  float64 `json:"positionX"`
	PositionY  float64 `json:"positionY"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// tolerance for float sums such as 33.3 + 66.7
const geometryEpsilon = 1e-9

// validate rejects boxes that leave the page. pageCount 0 means the page count is unknown.
func (b Box) validate(pageCount int) error {
	if b.PageNumber < 1 {
		return invalidInput("pageNumber", "page number must be at least 1")
	}
	if pageCount > 0 && b.PageNumber > pageCount {
		return invalidInput("pageNumber", "page number %d exceeds the document's %d pages", b.PageNumber, pageCount)
	}

	for _, c := range []struct {
		name  string
		value float64
	}{
		{"positionX", b.PositionX},
		{"positionY", b.PositionY},
		{"width", b.Width},
		{"height", b.Height},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return invalidInput(c.name, "%s must be a finite number", c.name)
		}
	}

	if b.Width <= 0 {
		return invalidInput("width", "width must be greater than 0")
	}
	if b.Height <= 0 {
		return invalidInput("height", "height must be greater than 0")
	}
	if b.PositionX < 0 || b.PositionX+b.Width > 100+geometryEpsilon {
		return invalidInput("positionX", "field must stay within the page width (positionX + width <= 100)")
	}
	if b.PositionY < 0 || b.PositionY+b.Height > 100+geometryEpsilon {
		return invalidInput("positionY", "field must stay within the page height (positionY + height <= 100)")
	}

	return nil
}

func (b Box) toModel() model.BaseBoxModel {
	return model.BaseBoxModel{
		PageNumber: b.PageNumber,
		PositionX:  b.PositionX,
		PositionY:  b.PositionY,
		Width:      b.Width,
		Height:     b.Height,
	}
}
