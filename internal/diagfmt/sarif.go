package diagfmt

import (
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/2gis/2gisqt5android/internal/diag"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation *sarifPhysical `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogical `json:"logicalLocations,omitempty"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifLogical struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifLocations(loc diag.Location, meta SarifRunMeta) []sarifLocation {
	if loc.IsZero() {
		return nil
	}
	var out sarifLocation
	if loc.File != "" {
		out.PhysicalLocation = &sarifPhysical{
			ArtifactLocation: sarifArtifact{URI: formatPath(loc.File, meta.PathMode, meta.BaseDir)},
		}
	}
	if loc.Definition != "" {
		name, kind := loc.Definition, "type"
		if loc.Member != "" {
			name, kind = loc.Definition+"."+loc.Member, "member"
		}
		out.LogicalLocations = []sarifLogical{{FullyQualifiedName: name, Kind: kind}}
	}
	return []sarifLocation{out}
}

// Sarif writes the bag as a single-run SARIF 2.1.0 log. Rules list every
// code that occurs, ordered by ID.
func Sarif(w io.Writer, bag *diag.Bag, meta SarifRunMeta) error {
	rules := map[string]sarifRule{}
	results := make([]sarifResult, 0, bag.Len())
	for _, d := range bag.Items() {
		id := d.Code.ID()
		rules[id] = sarifRule{ID: id, ShortDescription: sarifMessage{Text: d.Code.Title()}}
		msg := d.Message
		if len(d.Notes) > 0 {
			notes := make([]string, len(d.Notes))
			for i, n := range d.Notes {
				notes[i] = n.Msg
			}
			msg += " (" + strings.Join(notes, "; ") + ")"
		}
		results = append(results, sarifResult{
			RuleID:    id,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: msg},
			Locations: sarifLocations(d.Primary, meta),
		})
	}
	ruleList := make([]sarifRule, 0, len(rules))
	for _, r := range rules {
		ruleList = append(ruleList, r)
	}
	sort.Slice(ruleList, func(i, j int) bool { return ruleList[i].ID < ruleList[j].ID })

	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: ruleList}},
		Results: results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !bag.HasErrors()}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
