package idl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

// Format selects the encoding of a definitions file.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned for file extensions that are neither JSON
// nor msgpack.
var ErrUnknownFormat = errors.New("unknown definitions format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Decode reads definitions and normalizes every identifier.
func Decode(data []byte, format Format) (*Definitions, error) {
	defs := &Definitions{}
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(defs)
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("msgpack")
		err = dec.Decode(defs)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	defs.Normalize()
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return defs, nil
}

// Encode writes definitions in the given format.
func Encode(defs *Definitions, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(defs, "", "  ")
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("msgpack")
		enc.SetSortMapKeys(true)
		if err := enc.Encode(defs); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
}

// LoadFile reads a definitions file, choosing the decoder by extension.
func LoadFile(path string) (*Definitions, []byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	defs, err := Decode(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, data, nil
}

// nfc folds an identifier to NFC and trims surrounding space, so that
// names typed differently in different files compare equal.
func nfc(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func (e ExtAttrs) normalize() ExtAttrs {
	if len(e) == 0 {
		return e
	}
	out := make(ExtAttrs, len(e))
	for k, v := range e {
		out[nfc(k)] = nfc(v)
	}
	return out
}

// Normalize folds all identifiers and type descriptors to NFC in place.
func (d *Definitions) Normalize() {
	for _, iface := range d.Interfaces {
		iface.Name = nfc(iface.Name)
		iface.Parent = nfc(iface.Parent)
		iface.ExtAttrs = iface.ExtAttrs.normalize()
		for _, a := range iface.Attributes {
			a.Name, a.Type = nfc(a.Name), nfc(a.Type)
			a.ExtAttrs = a.ExtAttrs.normalize()
		}
		for _, c := range iface.Constants {
			c.Name, c.Type = nfc(c.Name), nfc(c.Type)
			c.ExtAttrs = c.ExtAttrs.normalize()
		}
		for _, ops := range [][]*Operation{iface.Operations, iface.Constructors, iface.CustomConstructors} {
			for _, op := range ops {
				op.normalize()
			}
		}
	}
	for _, dict := range d.Dictionaries {
		dict.Name = nfc(dict.Name)
		dict.Parent = nfc(dict.Parent)
		dict.ExtAttrs = dict.ExtAttrs.normalize()
		for _, m := range dict.Members {
			m.Name, m.Type = nfc(m.Name), nfc(m.Type)
			m.ExtAttrs = m.ExtAttrs.normalize()
		}
	}
	for _, e := range d.Enums {
		e.Name = nfc(e.Name)
		for i, v := range e.Values {
			e.Values[i] = norm.NFC.String(v)
		}
	}
	for i, cb := range d.CallbackFunctions {
		d.CallbackFunctions[i] = nfc(cb)
	}
}

func (o *Operation) normalize() {
	o.Name = nfc(o.Name)
	o.ReturnType = nfc(o.ReturnType)
	o.ExtAttrs = o.ExtAttrs.normalize()
	for _, a := range o.Arguments {
		a.Name, a.Type = nfc(a.Name), nfc(a.Type)
		a.ExtAttrs = a.ExtAttrs.normalize()
	}
}

// Validate rejects definitions without the names everything else keys on.
func (d *Definitions) Validate() error {
	var errs []error
	for i, iface := range d.Interfaces {
		if iface == nil || iface.Name == "" {
			errs = append(errs, fmt.Errorf("interface #%d has no name", i))
			continue
		}
		for j, a := range iface.Attributes {
			if a == nil || a.Name == "" || a.Type == "" {
				errs = append(errs, fmt.Errorf("%s: attribute #%d needs a name and a type", iface.Name, j))
			}
		}
		for j, op := range iface.Operations {
			if op == nil {
				errs = append(errs, fmt.Errorf("%s: operation #%d is empty", iface.Name, j))
				continue
			}
			for k, arg := range op.Arguments {
				if arg == nil || arg.Type == "" {
					errs = append(errs, fmt.Errorf("%s.%s: argument #%d has no type", iface.Name, op.Name, k))
				}
			}
		}
	}
	for i, dict := range d.Dictionaries {
		if dict == nil || dict.Name == "" {
			errs = append(errs, fmt.Errorf("dictionary #%d has no name", i))
		}
	}
	for i, e := range d.Enums {
		if e == nil || e.Name == "" {
			errs = append(errs, fmt.Errorf("enum #%d has no name", i))
		}
	}
	return errors.Join(errs...)
}

// Merge appends other's definitions to d.
func (d *Definitions) Merge(other *Definitions) {
	d.Interfaces = append(d.Interfaces, other.Interfaces...)
	d.Dictionaries = append(d.Dictionaries, other.Dictionaries...)
	d.Enums = append(d.Enums, other.Enums...)
	d.CallbackFunctions = append(d.CallbackFunctions, other.CallbackFunctions...)
}
