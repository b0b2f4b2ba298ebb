package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/2gis/2gisqt5android/internal/buildpipeline"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("Node", 10); got != "Node" {
		t.Fatalf("short value changed: %q", got)
	}
	got := Truncate("HTMLCanvasElement", 8)
	if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 8 {
		t.Fatalf("truncated = %q", got)
	}
	if got := Truncate("abcdef", 2); runewidth.StringWidth(got) > 2 || strings.Contains(got, ".") {
		t.Fatalf("narrow truncate = %q", got)
	}
}

func TestApplyEventTracksDefinitions(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("generating", events).(*progressModel)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "loading" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	m.applyEvent(buildpipeline.Event{Definition: "Node", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{Definition: "Broken", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{Definition: "Node", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusCached})
	m.applyEvent(buildpipeline.Event{Definition: "Broken", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	m.applyEvent(buildpipeline.Event{Definition: "Broken", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})

	if len(m.items) != 2 {
		t.Fatalf("items = %+v", m.items)
	}
	if m.items[0].status != "cached" || m.items[1].status != "error" {
		t.Fatalf("statuses = %+v", m.items)
	}
	if c := m.completion(); c != 1 {
		t.Fatalf("completion = %v", c)
	}
	if view := m.View(); !strings.Contains(view, "Node") || !strings.Contains(view, "(loading)") {
		t.Fatalf("view = %q", view)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		stage  buildpipeline.Stage
		status buildpipeline.Status
		want   string
	}{
		{buildpipeline.StageWrite, buildpipeline.StatusDone, "written"},
		{buildpipeline.StageGenerate, buildpipeline.StatusDone, "done"},
		{buildpipeline.StageGenerate, buildpipeline.StatusWorking, "generating"},
		{buildpipeline.StageLoad, buildpipeline.StatusError, "error"},
	}
	for _, tc := range cases {
		if got := StatusLabel(tc.stage, tc.status); got != tc.want {
			t.Errorf("StatusLabel(%s, %s) = %q, want %q", tc.stage, tc.status, got, tc.want)
		}
	}
}
