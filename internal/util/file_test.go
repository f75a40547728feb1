package util

import (
	"strings"
	"testing"
)

func TestAddUniquePrefixToFileName(t *testing.T) {
	filename := "testfile.txt"
	result := AddUniquePrefixToFileName(filename)

	if !strings.HasSuffix(result, "_testfile.txt") {
		t.Errorf("Expected filename to have unique prefix, got %s", result)
	}

	prefix := strings.Split(result, "_")[0]
	if len(prefix) == 0 {
		t.Errorf("Expected a non-empty unique prefix, got %s", prefix)
	}

	if other := AddUniquePrefixToFileName(filename); other == result {
		t.Errorf("Expected two calls to produce different names, both got %s", result)
	}
}

func TestToDocumentObjectKey(t *testing.T) {
	key := ToDocumentObjectKey("owner-1", "/tmp/my lease.pdf")

	if !strings.HasPrefix(key, "documents/owner-1/") {
		t.Errorf("Expected key under owner directory, got %s", key)
	}
	if !strings.HasSuffix(key, "_my_lease.pdf") {
		t.Errorf("Expected key to keep sanitized base name, got %s", key)
	}
}
