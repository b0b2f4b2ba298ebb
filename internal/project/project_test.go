package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2gis/2gisqt5android/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[project]\nname = \"core\"\ninputs = [\"idl\"]\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Root != root || m.Config.Output.Format != "json" || m.Config.Output.Dir != "gen" {
		t.Fatalf("manifest = %+v", m)
	}
	if got := m.InputPaths(); len(got) != 1 || got[0] != filepath.Join(root, "idl") {
		t.Fatalf("inputs = %v", got)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	cases := map[string]string{
		"missing [project]":      "[output]\ndir = \"x\"\n",
		"missing [project].name": "[project]\ninputs = [\"a\"]\n",
		"at least one path":      "[project]\nname = \"x\"\n",
		"json or msgpack":        "[project]\nname = \"x\"\ninputs = [\"a\"]\n[output]\nformat = \"yaml\"\n",
		"unknown key":            "[project]\nname = \"x\"\ninputs = [\"a\"]\nextra = 1\n",
	}
	for want, content := range cases {
		path := filepath.Join(t.TempDir(), ManifestName)
		writeFile(t, path, content)
		if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("%q: got %v", want, err)
		}
	}
}

const globalTOML = `
interfaces = ["Node", "Element"]
dictionaries = ["Options"]
will_be_garbage_collected = ["Node"]

[enums]
Mode = ["open", "closed"]

[component_dirs]
Node = "core"

[parents]
Element = "Node"
`

func TestGlobalInfoConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.toml")
	writeFile(t, path, globalTOML)
	info, digest, err := LoadGlobalInfo(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if digest != DigestOf([]byte(globalTOML)) {
		t.Fatalf("digest does not cover the file bytes")
	}
	reg := types.NewRegistry(info.Config())
	if !reg.Inherits("Element", "Node") {
		t.Fatalf("parents not applied")
	}
	if reg.GCTypeOf("Node") != types.WillBeGarbageCollected {
		t.Fatalf("gc type = %v", reg.GCTypeOf("Node"))
	}
	if values, ok := reg.EnumValues("Mode"); !ok || len(values) != 2 {
		t.Fatalf("enum values = %v", values)
	}
}

func TestGlobalInfoRejectsConflicts(t *testing.T) {
	_, err := DecodeGlobalInfo([]byte("interfaces = [\"A\"]\ndictionaries = [\"A\"]\ngarbage_collected = [\"B\"]\nwill_be_garbage_collected = [\"B\"]\n"))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"A is both", "B is both"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q lacks %q", err, want)
		}
	}
	if _, err := DecodeGlobalInfo([]byte("interfacez = []\n")); err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := DigestOf([]byte("a")), DigestOf([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("combine must depend on order")
	}
	if Combine(a).IsZero() || len(a.String()) != 64 {
		t.Fatalf("unexpected digest form")
	}
}
