package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	i := Info{Version: "v1.0.0", Commit: "abc1234", BuildDate: "2024-01-01", GoVersion: "go1.25"}
	if got := i.String(); got != "reqshape v1.0.0 (abc1234) built 2024-01-01 go1.25" {
		t.Fatalf("String()=%q", got)
	}
	if got := (Info{Version: "dev", GoVersion: "go1.25"}).String(); got != "reqshape dev go1.25" {
		t.Fatalf("String()=%q", got)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.GoVersion != runtime.Version() {
		t.Fatalf("Get()=%+v", info)
	}
	if !strings.HasPrefix(info.String(), "reqshape ") {
		t.Fatalf("String()=%q", info.String())
	}
}
