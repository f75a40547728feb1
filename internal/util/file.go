package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const fileNamePrefixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Example output for "ex.txt": "k3j9x0a1b2_ex.txt"
func AddUniquePrefixToFileName(fileName string) string {
	uniquePrefix, err := gonanoid.Generate(fileNamePrefixAlphabet, 10)
	if err != nil {
		uniquePrefix = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", uniquePrefix, fileName)
}

func GetDocumentDirectoryPath(ownerId string) string {
	return fmt.Sprintf("documents/%s", ownerId)
}

// Object key of an uploaded document, e.g. "documents/<owner>/k3j9x0a1b2_lease.pdf"
func ToDocumentObjectKey(ownerId string, filename string) string {
	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return filepath.ToSlash(filepath.Join(GetDocumentDirectoryPath(ownerId), AddUniquePrefixToFileName(base)))
}
