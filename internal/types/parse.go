package types

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed or contradictory type descriptor.
type ParseError struct {
	Desc   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type descriptor %q: %s", e.Desc, e.Reason)
}

// Parse reads a type descriptor right-to-left using the registry to resolve
// base names. Suffixes bind from the outside in, so "uint8[]{string}" is a
// record keyed by string whose values are uint8[].
func (r *Registry) Parse(desc string) (Type, error) {
	p := parser{desc: desc, resolve: r.Named}
	return p.parse(strings.TrimSpace(desc))
}

// MustParse is Parse for descriptors known to be valid; it panics otherwise.
func (r *Registry) MustParse(desc string) Type {
	t, err := r.Parse(desc)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	desc    string
	resolve func(string) Type
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Desc: p.desc, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parse(s string) (Type, error) {
	if s == "" {
		return nil, p.fail("empty type")
	}
	switch {
	case strings.HasSuffix(s, "?"):
		inner, err := p.parse(strings.TrimSpace(s[:len(s)-1]))
		if err != nil {
			return nil, err
		}
		switch inner := inner.(type) {
		case NullableType:
			return nil, p.fail("nullable of nullable type %s", inner)
		case UnionType:
			for _, member := range inner.Members {
				if IsNullable(member) {
					return nil, p.fail("nullable union %s has nullable member %s", inner, member)
				}
			}
		}
		return NullableType{Inner: inner}, nil

	case strings.HasSuffix(s, "[]"):
		elem, err := p.parse(strings.TrimSpace(s[:len(s)-2]))
		if err != nil {
			return nil, err
		}
		return ArrayType{Elem: elem}, nil

	case strings.HasSuffix(s, "}"):
		open := matchOpen(s)
		if open <= 0 {
			return nil, p.fail("unbalanced braces in %q", s)
		}
		key, err := p.parse(strings.TrimSpace(s[open+1 : len(s)-1]))
		if err != nil {
			return nil, err
		}
		value, err := p.parse(strings.TrimSpace(s[:open]))
		if err != nil {
			return nil, err
		}
		return RecordType{Key: key, Value: value}, nil

	case strings.HasSuffix(s, ">"):
		open := matchOpen(s)
		if open <= 0 {
			return nil, p.fail("unbalanced angle brackets in %q", s)
		}
		head := strings.TrimSpace(s[:open])
		elem, err := p.parse(strings.TrimSpace(s[open+1 : len(s)-1]))
		if err != nil {
			return nil, err
		}
		switch head {
		case "sequence":
			return SequenceType{Elem: elem}, nil
		case "Promise":
			return BuiltinType{Base: "Promise"}, nil
		default:
			return nil, p.fail("unknown generic type %s<...>", head)
		}

	case strings.HasSuffix(s, ")"):
		if matchOpen(s) != 0 {
			return nil, p.fail("unbalanced parentheses in %q", s)
		}
		return p.parseUnion(s[1 : len(s)-1])
	}
	return p.parseName(s)
}

func (p *parser) parseUnion(body string) (Type, error) {
	parts := splitTopLevel(body, "or")
	if len(parts) < 2 {
		return nil, p.fail("union needs at least two members")
	}
	members := make([]Type, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		member, err := p.parse(part)
		if err != nil {
			return nil, err
		}
		name := Name(member)
		if seen[name] {
			return nil, p.fail("duplicate union member %s", member)
		}
		seen[name] = true
		members = append(members, member)
	}
	return UnionType{Members: members}, nil
}

func (p *parser) parseName(s string) (Type, error) {
	words := strings.Fields(s)
	for _, word := range words {
		for _, r := range word {
			if !isNameRune(r) {
				return nil, p.fail("unexpected character %q in type name %q", r, s)
			}
		}
	}
	return p.resolve(strings.Join(words, " ")), nil
}

func isNameRune(r rune) bool {
	return r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// matchOpen returns the index of the bracket that opens the closing bracket
// at the end of s, or -1.
func matchOpen(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')', '>', '}', ']':
			depth++
		case '(', '<', '{', '[':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on the whole word sep outside of any brackets.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<', '{', '[':
			depth++
		case ')', '>', '}', ']':
			depth--
		}
		if depth != 0 || !strings.HasPrefix(s[i:], sep) {
			continue
		}
		end := i + len(sep)
		if (i == 0 || s[i-1] == ' ') && end < len(s) && s[end] == ' ' {
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = end
			i = end - 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
