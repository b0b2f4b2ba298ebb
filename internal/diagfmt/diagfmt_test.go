package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/2gis/2gisqt5android/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.OvlNoDistinguishingIndex,
		diag.Location{File: "idl/Node.json", Definition: "Node", Member: "f"},
		"overloads of f are ambiguous"))
	bag.Add(diag.New(diag.SevInfo, diag.ExtUnknownAttribute,
		diag.Location{File: "idl/Node.json", Definition: "Node"},
		"unknown extended attribute [Foo] ignored").
		WithNote(diag.Location{}, "attribute kept in the raw bag"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, Summary: true})
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := "Node.json: Node.f: error OVL2001: overloads of f are ambiguous\n" +
		"Node.json: Node: info EXT4001: unknown extended attribute [Foo] ignored\n" +
		"  note: attribute kept in the raw bag\n" +
		"1 error, 0 warnings\n"
	if got := buf.String(); got != want {
		t.Fatalf("pretty output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", buf.String())
	}
	if strings.Contains(buf.String(), "note") {
		t.Fatalf("notes must be hidden without ShowNotes")
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleBag(), false); err != nil {
		t.Fatalf("short: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "info EXT4001 idl/Node.json:Node ") {
		t.Fatalf("short output = %q", buf.String())
	}
}

func TestJSONCountsWholeBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{Max: 1}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Errors != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("output = %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "OVL2001" || d.Location.Member != "f" || d.Severity != "ERROR" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "idlbind", ToolVersion: "0.1.0", InvocationArgs: []string{"check"}}
	if err := Sarif(&buf, sampleBag(), meta); err != nil {
		t.Fatalf("sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	run := log.Runs[0]
	if log.Version != "2.1.0" || len(run.Results) != 2 || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("log = %+v", log)
	}
	if run.Tool.Driver.Rules[0].ID != "EXT4001" {
		t.Fatalf("rules not sorted: %+v", run.Tool.Driver.Rules)
	}
	first := run.Results[0]
	if first.Level != "error" || first.Locations[0].LogicalLocations[0].FullyQualifiedName != "Node.f" {
		t.Fatalf("result = %+v", first)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("a bag with errors is not a successful execution")
	}
}
