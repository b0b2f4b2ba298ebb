package diag

import "strings"

// Location points at a definition or one of its members. File is the input
// the definition was loaded from and may be empty.
type Location struct {
	File       string `json:"file,omitempty" msgpack:"file,omitempty"`
	Definition string `json:"definition,omitempty" msgpack:"definition,omitempty"`
	Member     string `json:"member,omitempty" msgpack:"member,omitempty"`
}

func (l Location) IsZero() bool {
	return l == Location{}
}

// String renders "file: Definition.member", omitting empty parts.
func (l Location) String() string {
	var b strings.Builder
	if l.File != "" {
		b.WriteString(l.File)
		if l.Definition != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(l.Definition)
	if l.Member != "" {
		if l.Definition != "" {
			b.WriteByte('.')
		}
		b.WriteString(l.Member)
	}
	return b.String()
}

type Note struct {
	Location Location `json:"location" msgpack:"location"`
	Msg      string   `json:"msg" msgpack:"msg"`
}

type Diagnostic struct {
	Severity Severity `json:"severity" msgpack:"severity"`
	Code     Code     `json:"code" msgpack:"code"`
	Message  string   `json:"message" msgpack:"message"`
	Primary  Location `json:"primary" msgpack:"primary"`
	Notes    []Note   `json:"notes,omitempty" msgpack:"notes,omitempty"`
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Location: loc, Msg: msg})
	return d
}
