// project_test.go
package n7tya

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_CreateProject_Layout(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "demo")
	if err := CreateProject(name); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	m, err := LoadManifest(name)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m == nil || m.Version != "0.1.0" {
		t.Fatalf("bad manifest: %+v", m)
	}

	src, err := os.ReadFile(filepath.Join(name, "src", "main.n7t"))
	if err != nil {
		t.Fatalf("scaffold entry missing: %v", err)
	}
	if !strings.Contains(string(src), "Hello, n7tya!") {
		t.Fatalf("bad scaffold: %q", src)
	}
}

func Test_Scaffold_ParsesClean(t *testing.T) {
	prog := parseSrc(t, scaffoldMain)
	if len(prog.Items) != 2 {
		t.Fatalf("scaffold should be a def plus a trailing expression, got %d items", len(prog.Items))
	}
	if diags := NewChecker().Check(prog); len(diags) != 0 {
		t.Fatalf("scaffold diagnostics: %v", diags)
	}
}

func Test_LoadManifest_Missing_IsNil(t *testing.T) {
	m, err := LoadManifest(t.TempDir())
	if err != nil || m != nil {
		t.Fatalf("missing manifest: %v %v", m, err)
	}
}

func Test_Manifest_ServerOverride(t *testing.T) {
	dir := t.TempDir()
	manifest := "name: demo\nversion: 0.1.0\nserver:\n  host: 0.0.0.0\n  port: 9000\n"
	os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	ip := NewInterp()
	ip.ApplyManifest(m)
	if ip.host != "0.0.0.0" || ip.port != 9000 {
		t.Fatalf("override not applied: %s:%d", ip.host, ip.port)
	}
}

func Test_Manifest_EntryFile_Default(t *testing.T) {
	var m *Manifest
	if got := m.EntryFile(); got != filepath.Join("src", "main.n7t") {
		t.Fatalf("nil manifest default: %q", got)
	}
	m = &Manifest{Entry: "app.n7t"}
	if m.EntryFile() != "app.n7t" {
		t.Fatalf("explicit entry ignored")
	}
}
