package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "pulse "+Version) {
		t.Errorf("String() = %q, want prefix %q", s, "pulse "+Version)
	}
	if !strings.Contains(s, GitSHA) {
		t.Errorf("String() = %q, missing git sha %q", s, GitSHA)
	}
}
