// builtin_file_test.go
package n7tya

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_FS_WriteReadExistsRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	ip := NewInterp()

	if _, err := ip.CallBuiltin("fs.write_file", []Value{StrValue(path), StrValue("hello")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := ip.CallBuiltin("fs.read_file", []Value{StrValue(path)})
	if err != nil || v.Str() != "hello" {
		t.Fatalf("read: %v %v", v, err)
	}
	v, _ = ip.CallBuiltin("fs.exists", []Value{StrValue(path)})
	if !v.Bool() {
		t.Fatalf("exists should be true")
	}
	if _, err := ip.CallBuiltin("fs.remove", []Value{StrValue(path)}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	v, _ = ip.CallBuiltin("fs.exists", []Value{StrValue(path)})
	if v.Bool() {
		t.Fatalf("exists should be false after remove")
	}
}

func Test_FS_Remove_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	os.MkdirAll(filepath.Join(sub, "deep"), 0o755)
	os.WriteFile(filepath.Join(sub, "deep", "f.txt"), []byte("x"), 0o644)

	ip := NewInterp()
	if _, err := ip.CallBuiltin("fs.remove", []Value{StrValue(sub)}); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Fatalf("directory should be gone")
	}
}

func Test_FS_ReadDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644)

	ip := NewInterp()
	v, err := ip.CallBuiltin("fs.read_dir", []Value{StrValue(dir)})
	if err != nil {
		t.Fatalf("read_dir: %v", err)
	}
	if len(v.List().Items) != 2 {
		t.Fatalf("want 2 entries, got %s", v.Display())
	}
}

func Test_FS_ReadMissing_IsError(t *testing.T) {
	ip := NewInterp()
	_, err := ip.CallBuiltin("fs.read_file", []Value{StrValue(filepath.Join(t.TempDir(), "nope"))})
	if err == nil || !strings.Contains(err.Error(), "fs.read_file") {
		t.Fatalf("unexpected: %v", err)
	}
}

func Test_Base64_RoundTrip(t *testing.T) {
	ip := NewInterp()
	enc, err := ip.CallBuiltin("base64.encode", []Value{StrValue("n7tya")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := ip.CallBuiltin("base64.decode", []Value{enc})
	if err != nil || dec.Str() != "n7tya" {
		t.Fatalf("decode: %v %v", dec, err)
	}
	if _, err := ip.CallBuiltin("base64.decode", []Value{StrValue("!!!")}); err == nil {
		t.Fatalf("bad input should fail")
	}
}

func Test_CallBuiltin_Unknown(t *testing.T) {
	ip := NewInterp()
	_, err := ip.CallBuiltin("no.such", nil)
	if err == nil || !strings.Contains(err.Error(), "Unknown builtin function: no.such") {
		t.Fatalf("unexpected: %v", err)
	}
}

func Test_CallBuiltin_ClassSeam(t *testing.T) {
	ip := NewInterp()
	v, err := ip.CallBuiltin("__class_Point", nil)
	if err != nil {
		t.Fatalf("class seam: %v", err)
	}
	inst := v.Instance()
	if inst.Class != "Point" || len(inst.Fields) != 0 {
		t.Fatalf("instances start empty: %#v", inst)
	}
}
