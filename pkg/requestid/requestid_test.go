package requestid

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
)

func TestGenFormat(t *testing.T) {
	id := Gen()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("unexpected id format: %q err=%v", id, err)
	}
	if Gen() == id {
		t.Fatalf("expected distinct ids")
	}
}

func TestIdentifier(t *testing.T) {
	if got := Identifier(0, ""); got != "" {
		t.Fatalf("Identifier(0)=%q", got)
	}
	s := Identifier(16, "")
	if ok, _ := regexp.MatchString(`^[A-Z0-9]{16}$`, s); !ok {
		t.Fatalf("Identifier default alphabet=%q", s)
	}
	if got := Identifier(5, "x"); got != "xxxxx" {
		t.Fatalf("Identifier single rune=%q", got)
	}
	if got := Identifier(3, "é"); got != "ééé" {
		t.Fatalf("Identifier multibyte=%q", got)
	}
}

func TestGenerator(t *testing.T) {
	if ok, _ := regexp.MatchString(`^[A-Z0-9]{16}$`, Generator("identifier")()); !ok {
		t.Fatalf("identifier generator mismatch")
	}
	if _, err := uuid.Parse(Generator("")()); err != nil {
		t.Fatalf("default generator should produce uuids: %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := cryptoRandIntn(0); got != 0 {
		t.Fatalf("cryptoRandIntn(0)=%d", got)
	}
	if got := ResolveHeaderKey("  "); got != DefaultHeaderKey {
		t.Fatalf("ResolveHeaderKey blank=%q", got)
	}
	if got := ResolveHeaderKey(" X-Trace "); got != "X-Trace" {
		t.Fatalf("ResolveHeaderKey trimmed=%q", got)
	}
}
