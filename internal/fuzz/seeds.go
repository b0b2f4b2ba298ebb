package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var builtinSeeds = []string{
	`{}`,
	`{"interfaces": [{"name": "Counter", "operations": [{"name": "increment", "idl_type": "void", "arguments": [{"name": "by", "idl_type": "long"}]}]}]}`,
	`{"interfaces": [{"name": "Node", "extended_attributes": {"WillBeGarbageCollected": ""},
	  "attributes": [{"name": "label", "idl_type": "DOMString?"}],
	  "operations": [
	    {"name": "f", "idl_type": "void", "arguments": [{"name": "x", "idl_type": "long"}]},
	    {"name": "f", "idl_type": "void", "arguments": [{"name": "x", "idl_type": "DOMString"}]}
	  ]}]}`,
	`{"dictionaries": [{"name": "NodeInit", "members": [{"name": "depth", "idl_type": "long", "default_value": "1"}]}]}`,
	`{"interfaces": [{"name": "Broken", "operations": [{"idl_type": "long", "specials": ["deleter"], "arguments": [{"name": "i", "idl_type": "unsigned long"}]}]}]}`,
	`{"interfaces": [{"name": "List", "operations": [{"idl_type": "DOMString", "specials": ["getter"], "arguments": [{"name": "index", "idl_type": "unsigned long"}]}]}]}`,
}

// addCorpusSeeds adds the builtin seeds and every JSON definition file under
// the repository testdata directory, when there is one.
func addCorpusSeeds(f *testing.F) {
	f.Helper()
	for _, seed := range builtinSeeds {
		f.Add([]byte(seed))
	}
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(data))
		return nil
	})
}

func clamp(input []byte) []byte {
	if len(input) > maxSeedBytes {
		input = input[:maxSeedBytes]
	}
	return append([]byte(nil), input...)
}
