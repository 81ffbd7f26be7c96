package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reqshape/reqshape/internal/version"
	"github.com/reqshape/reqshape/pkg/params"
)

func TestVersionCmdOutput(t *testing.T) {
	t.Parallel()

	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute version cmd: %v", err)
	}

	got := strings.TrimSpace(buf.String())
	want := strings.TrimSpace(fmt.Sprint(version.Get()))
	if got != want {
		t.Fatalf("version output=%q want=%q", got, want)
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, sub := range []string{"serve", "decode", "version"} {
		if _, _, err := root.Find([]string{sub}); err != nil {
			t.Fatalf("find %s subcommand: %v", sub, err)
		}
	}
}

func TestServeCmdPassesConfigPath(t *testing.T) {
	orig := runServeFn
	defer func() { runServeFn = orig }()

	var got string
	runServeFn = func(cfgPath string) error {
		got = cfgPath
		return nil
	}

	root := newRootCmd()
	root.SetArgs([]string{"serve", "-c", "/etc/reqshape.yaml"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "/etc/reqshape.yaml" {
		t.Fatalf("config path=%q", got)
	}
}

func runDecodeArgs(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"decode"}, args...))
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestDecodeCmd_FormArrayGroups(t *testing.T) {
	t.Parallel()

	got, err := runDecodeArgs(t, "", "--form", "people[].name[]=A&people[].name[]=B&people[].age[]=1&people[].age[]=2")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := `{"people":[{"name":"A","age":"1"},{"name":"B","age":"2"}]}`
	if got != want {
		t.Fatalf("out=%s\nwant=%s", got, want)
	}
}

func TestDecodeCmd_NoNormalize(t *testing.T) {
	t.Parallel()

	got, err := runDecodeArgs(t, "", "--form", "tags[]=a&tags[]=b", "--norm=false")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != `{"tags[]":["a","b"]}` {
		t.Fatalf("out=%s", got)
	}
}

func TestDecodeCmd_FindFromStdinAndQuery(t *testing.T) {
	t.Parallel()

	got, err := runDecodeArgs(t, `{"filter_def":"x","noise":1}`, "--json", "-", "--query", "?start_record=5", "--find")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != `{"find_d":"x","skip":5}` {
		t.Fatalf("out=%s", got)
	}
}

func TestDecodeCmd_SelectAndTablesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := filepath.Join(dir, "body.json")
	if err := os.WriteFile(body, []byte(`{"page":"3","meta":{"tags":["a","b"]}}`), 0o600); err != nil {
		t.Fatalf("write body: %v", err)
	}
	tables := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(tables, []byte("aliases:\n  page: skip\ntypes:\n  skip: int\n"), 0o600); err != nil {
		t.Fatalf("write tables: %v", err)
	}

	got, err := runDecodeArgs(t, "", "--json", body, "--select", "$.meta.tags[1]")
	if err != nil || got != `"b"` {
		t.Fatalf("select out=%s err=%v", got, err)
	}

	got, err = runDecodeArgs(t, "", "--json", body, "--tables", tables, "--find")
	if err != nil || got != `{"skip":3}` {
		t.Fatalf("tables out=%s err=%v", got, err)
	}
}

func TestDecodeCmd_Errors(t *testing.T) {
	t.Parallel()

	if _, err := runDecodeArgs(t, "", "--form", "a=1&a.b=2"); !params.IsKind(err, params.StructuralConflict) {
		t.Fatalf("expected StructuralConflict, got %v", err)
	}
	if _, err := runDecodeArgs(t, "", "--query", "skip=x", "--find"); !params.IsKind(err, params.CoercionFailure) {
		t.Fatalf("expected CoercionFailure, got %v", err)
	}
	if _, err := runDecodeArgs(t, "", "--json", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := runDecodeArgs(t, `{"a":1}`, "--json", "-", "--select", "$.b"); err == nil {
		t.Fatalf("expected select miss error")
	}
}
