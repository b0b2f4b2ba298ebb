package naming

import (
	"slices"
	"testing"

	"github.com/2gis/2gisqt5android/internal/extattr"
)

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"value":     "Value",
		"url":       "URL",
		"cssText":   "CSSText",
		"cssomRule": "CSSOMRule",
		"xmlBase":   "XMLBase",
		"Already":   "Already",
	}
	for in, want := range cases {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
	for in, want := range map[string]string{"SetURL": "setURL", "URLFoo": "urlFoo", "Value": "value", "": ""} {
		if got := Uncapitalize(in); got != want {
			t.Errorf("Uncapitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConditionalString(t *testing.T) {
	cases := []struct {
		raw  map[string]string
		want string
	}{
		{nil, ""},
		{map[string]string{"Conditional": "WEB_AUDIO"}, "ENABLE(WEB_AUDIO)"},
		{map[string]string{"Conditional": "B&A"}, "ENABLE(A) && ENABLE(B)"},
		{map[string]string{"Conditional": "Y|X"}, "ENABLE(X) || ENABLE(Y)"},
	}
	for _, c := range cases {
		if got := ConditionalString(extattr.Parse(c.raw, nil)); got != c.want {
			t.Errorf("%v: got %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestCallWithOrder(t *testing.T) {
	ext := extattr.Parse(map[string]string{"CallWith": "Document|ScriptState|ActiveWindow"}, nil)
	got := CallWithArguments(ext, extattr.CallWith)
	want := []string{"scriptState", "callingDOMWindow(info.GetIsolate())", "document"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if CallWithArguments(ext, extattr.ConstructorCallWith) != nil {
		t.Fatalf("ConstructorCallWith should be empty")
	}
}

func TestFeatureFunctions(t *testing.T) {
	ext := extattr.Parse(map[string]string{"RuntimeEnabled": "WebAnimationsAPI", "PerContextEnabled": "MojoJS"}, nil)
	if got := RuntimeEnabledFunction(ext); got != "RuntimeEnabledFeatures::webAnimationsAPIEnabled" {
		t.Errorf("runtime: %q", got)
	}
	if got := PerContextEnabledFunction(ext); got != "ContextFeatures::mojoJSEnabled" {
		t.Errorf("per context: %q", got)
	}
	if RuntimeEnabledFunction(extattr.Set{}) != "" {
		t.Errorf("absent attribute should give empty function")
	}
}

func TestScopedName(t *testing.T) {
	none := extattr.Set{}
	if got := ScopedName("Node", none, false, "appendChild", "appendChild"); got != "impl->appendChild" {
		t.Errorf("instance: %q", got)
	}
	if got := ScopedName("Node", none, true, "create", "create"); got != "Node::create" {
		t.Errorf("static: %q", got)
	}
	partial := extattr.Parse(map[string]string{"PartialInterfaceImplementedAs": "NodeExtras"}, nil)
	if got := ScopedName("Node", partial, false, "extra", "extra"); got != "NodeExtras::extra" {
		t.Errorf("partial: %q", got)
	}
}

func TestActivityLogging(t *testing.T) {
	all := extattr.Parse(map[string]string{"LogActivity": "", "LogAllWorlds": ""}, nil)
	if got := ActivityLoggingWorlds(all, "Getter"); !slices.Equal(got, []string{"", "ForMainWorld"}) {
		t.Errorf("all worlds: %v", got)
	}
	setterOnly := extattr.Parse(map[string]string{"LogActivity": "SetterOnly"}, nil)
	if got := ActivityLoggingWorlds(setterOnly, "Getter"); got != nil {
		t.Errorf("setter only for getter: %v", got)
	}
	if !ActivityLoggingWorldCheck(setterOnly) || ActivityLoggingWorldCheck(all) {
		t.Errorf("world check misreported")
	}
	if got := EnumValidationExpression([]string{"a", "b"}); got != `string == "a" || string == "b"` {
		t.Errorf("enum validation: %q", got)
	}
}
