package buildinfo

import (
	"strings"
	"testing"
)

func TestCacheScope(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got, want := CacheScope("mindcanvas"), "mindcanvas:v1.2.3:"; got != want {
		t.Errorf("CacheScope() = %q, want %q", got, want)
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q, want the version", Template())
	}
}
