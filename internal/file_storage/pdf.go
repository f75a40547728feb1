package filestorage

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func init() {
	// keep pdfcpu from writing its config directory into $HOME
	api.DisableConfigDir()
}

// GetPdfPageCount validates data as a PDF and returns its number of pages.
func GetPdfPageCount(data []byte) (int, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, fmt.Errorf("file is not a pdf")
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}
	if pageCount < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}

	return pageCount, nil
}
