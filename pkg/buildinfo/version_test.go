package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{Version, Commit, Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestEngineVersion(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "v1.2.3", "abc123"
	if got := EngineVersion(); got != "v1.2.3+abc123" {
		t.Errorf("EngineVersion() = %q", got)
	}

	Commit = "def456"
	if got := EngineVersion(); got == "v1.2.3+abc123" {
		t.Error("EngineVersion should change with the commit")
	}
}
