package env

import "testing"

func TestGetters(t *testing.T) {
	t.Setenv("AUTOSIGN_TEST_STRING", "hello")
	t.Setenv("AUTOSIGN_TEST_INT", " 42 ")
	t.Setenv("AUTOSIGN_TEST_BAD_INT", "forty-two")
	t.Setenv("AUTOSIGN_TEST_BOOL", "true")

	if got := GetString("AUTOSIGN_TEST_STRING", "x"); got != "hello" {
		t.Errorf("GetString() = %q, want hello", got)
	}
	if got := GetString("AUTOSIGN_TEST_MISSING", "x"); got != "x" {
		t.Errorf("GetString() fallback = %q, want x", got)
	}
	if got := GetInt("AUTOSIGN_TEST_INT", 1); got != 42 {
		t.Errorf("GetInt() = %d, want 42", got)
	}
	if got := GetInt("AUTOSIGN_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt() with bad value = %d, want fallback 7", got)
	}
	if got := GetBool("AUTOSIGN_TEST_BOOL", false); !got {
		t.Errorf("GetBool() = %v, want true", got)
	}
	if got := GetBool("AUTOSIGN_TEST_MISSING", true); !got {
		t.Errorf("GetBool() fallback = %v, want true", got)
	}
}
