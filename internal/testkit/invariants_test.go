package testkit

import (
	"strings"
	"testing"
)

type ctxMap map[string]any

func TestCheckContextAccepts(t *testing.T) {
	shared := ctxMap{"name": "f"}
	ctx := map[string]any{
		"a": "x",
		"b": true,
		"c": 3,
		"d": nil,
		"e": []string{"x"},
		"f": []int{1, 3},
		"g": []ctxMap{shared, shared},
		"h": ctxMap{"inner": shared},
	}
	if err := CheckContext(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckContextRejects(t *testing.T) {
	loop := ctxMap{}
	loop["self"] = loop
	cases := map[string]map[string]any{
		"$.f: unsupported value of type float64": {"f": 1.5},
		"$.m: map keys must be strings":          {"m": map[int]string{}},
		"$.s[0].x: unsupported value":            {"s": []ctxMap{{"x": struct{}{}}}},
		"$.l.self: cycle":                        {"l": loop},
	}
	for want, ctx := range cases {
		err := CheckContext(ctx)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("want %q, got %v", want, err)
		}
	}
}
