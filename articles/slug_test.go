package articles

import (
	"strings"
	"testing"
)

func TestNewSlugPrefix(t *testing.T) {
	got := NewSlug("How to Train Your Dragon")
	if !strings.HasPrefix(got, "how-to-train-your-dragon-") {
		t.Errorf("NewSlug() = %q, want the slugified title as prefix", got)
	}
}

func TestNewSlugSuffixCharset(t *testing.T) {
	got := NewSlug("Hello World")
	suffix := got[strings.LastIndex(got, "-")+1:]
	if suffix == "" {
		t.Fatalf("NewSlug() = %q, want a random suffix after the last dash", got)
	}
	for _, r := range suffix {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			t.Errorf("suffix %q contains %q, want base-36 digits only", suffix, r)
		}
	}
}

func TestNewSlugDistinctForSameTitle(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		slug := NewSlug("Same Title")
		if seen[slug] {
			t.Fatalf("NewSlug() produced %q twice in 50 calls", slug)
		}
		seen[slug] = true
	}
}
