package filestorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPdfPageCountRejectsNonPdf(t *testing.T) {
	_, err := GetPdfPageCount([]byte("hello world"))
	assert.ErrorContains(t, err, "not a pdf")

	_, err = GetPdfPageCount([]byte("%PDF-1.7\n garbage without xref"))
	assert.Error(t, err)
}
