package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/2gis/2gisqt5android/internal/diag"
	"github.com/2gis/2gisqt5android/internal/idl"
	"github.com/2gis/2gisqt5android/internal/project"
)

// Input is one loaded definitions file.
type Input struct {
	Path   string
	Defs   *idl.Definitions
	Digest project.Digest
}

// ListDefinitionFiles expands directories into the definition files they
// contain and returns a sorted, duplicate-free list.
func ListDefinitionFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ferr := idl.FormatOf(path); ferr == nil {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return slices.Compact(files), nil
}

// LoadInputs reads every file. Unreadable or malformed files are reported
// and skipped; a definition name seen in an earlier file is reported as a
// duplicate and dropped from the later one.
func LoadInputs(ctx context.Context, files []string, reporter diag.Reporter) ([]Input, error) {
	inputs := make([]Input, 0, len(files))
	seen := map[string]string{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		defs, raw, err := idl.LoadFile(path)
		if err != nil {
			code := diag.IODecodeError
			if os.IsNotExist(err) || os.IsPermission(err) {
				code = diag.IOLoadFileError
			}
			diag.ReportError(reporter, code, diag.Location{File: path}, err.Error()).Emit()
			continue
		}
		defs.Interfaces = dropDuplicates(defs.Interfaces, path, seen, reporter,
			func(i *idl.Interface) string { return i.Name })
		defs.Dictionaries = dropDuplicates(defs.Dictionaries, path, seen, reporter,
			func(d *idl.Dictionary) string { return d.Name })
		inputs = append(inputs, Input{Path: path, Defs: defs, Digest: project.DigestOf(raw)})
	}
	return inputs, nil
}

func dropDuplicates[T any](items []T, path string, seen map[string]string, reporter diag.Reporter, name func(T) string) []T {
	return slices.DeleteFunc(items, func(item T) bool {
		n := name(item)
		if first, dup := seen[n]; dup {
			diag.ReportError(reporter, diag.StrDuplicateDefinition,
				diag.Location{File: path, Definition: n},
				fmt.Sprintf("%s is already defined", n)).
				WithNote(diag.Location{File: first, Definition: n}, "first definition").
				Emit()
			return true
		}
		seen[n] = path
		return false
	})
}
