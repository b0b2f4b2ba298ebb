// Package idl is the object model of parsed IDL definitions handed over by
// the external parser. Type fields hold descriptors in the syntax accepted
// by types.Registry.Parse; extended attributes are raw name/value pairs.
package idl

// ExtAttrs is a raw extended attribute bag. A bare attribute maps to "".
type ExtAttrs map[string]string

// Definitions is the content of one input file.
type Definitions struct {
	Interfaces        []*Interface  `json:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	Dictionaries      []*Dictionary `json:"dictionaries,omitempty" msgpack:"dictionaries,omitempty"`
	Enums             []*Enum       `json:"enums,omitempty" msgpack:"enums,omitempty"`
	CallbackFunctions []string      `json:"callback_functions,omitempty" msgpack:"callback_functions,omitempty"`
}

// Len counts interfaces and dictionaries, the definitions contexts are built
// for.
func (d *Definitions) Len() int {
	return len(d.Interfaces) + len(d.Dictionaries)
}

type Interface struct {
	Name       string   `json:"name" msgpack:"name"`
	Parent     string   `json:"parent,omitempty" msgpack:"parent,omitempty"`
	IsCallback bool     `json:"is_callback,omitempty" msgpack:"is_callback,omitempty"`
	ExtAttrs   ExtAttrs `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`

	Attributes   []*Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Operations   []*Operation `json:"operations,omitempty" msgpack:"operations,omitempty"`
	Constants    []*Constant  `json:"constants,omitempty" msgpack:"constants,omitempty"`
	Constructors []*Operation `json:"constructors,omitempty" msgpack:"constructors,omitempty"`
	// CustomConstructors come from [CustomConstructor].
	CustomConstructors []*Operation `json:"custom_constructors,omitempty" msgpack:"custom_constructors,omitempty"`
}

type Attribute struct {
	Name       string   `json:"name" msgpack:"name"`
	Type       string   `json:"idl_type" msgpack:"idl_type"`
	IsStatic   bool     `json:"is_static,omitempty" msgpack:"is_static,omitempty"`
	IsReadOnly bool     `json:"is_read_only,omitempty" msgpack:"is_read_only,omitempty"`
	ExtAttrs   ExtAttrs `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

// Operation is a method, constructor or special operation. Specials lists
// the getter/setter/deleter keywords the operation was declared with.
type Operation struct {
	Name       string      `json:"name,omitempty" msgpack:"name,omitempty"`
	ReturnType string      `json:"idl_type,omitempty" msgpack:"idl_type,omitempty"`
	Arguments  []*Argument `json:"arguments,omitempty" msgpack:"arguments,omitempty"`
	IsStatic   bool        `json:"is_static,omitempty" msgpack:"is_static,omitempty"`
	Specials   []string    `json:"specials,omitempty" msgpack:"specials,omitempty"`
	ExtAttrs   ExtAttrs    `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

// HasSpecial reports whether the operation was declared with keyword.
func (o *Operation) HasSpecial(keyword string) bool {
	for _, s := range o.Specials {
		if s == keyword {
			return true
		}
	}
	return false
}

type Argument struct {
	Name       string   `json:"name" msgpack:"name"`
	Type       string   `json:"idl_type" msgpack:"idl_type"`
	IsOptional bool     `json:"is_optional,omitempty" msgpack:"is_optional,omitempty"`
	IsVariadic bool     `json:"is_variadic,omitempty" msgpack:"is_variadic,omitempty"`
	Default    *string  `json:"default_value,omitempty" msgpack:"default_value,omitempty"`
	ExtAttrs   ExtAttrs `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

type Constant struct {
	Name     string   `json:"name" msgpack:"name"`
	Type     string   `json:"idl_type" msgpack:"idl_type"`
	Value    string   `json:"value" msgpack:"value"`
	ExtAttrs ExtAttrs `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

type Dictionary struct {
	Name     string              `json:"name" msgpack:"name"`
	Parent   string              `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Members  []*DictionaryMember `json:"members,omitempty" msgpack:"members,omitempty"`
	ExtAttrs ExtAttrs            `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

type DictionaryMember struct {
	Name     string   `json:"name" msgpack:"name"`
	Type     string   `json:"idl_type" msgpack:"idl_type"`
	Default  *string  `json:"default_value,omitempty" msgpack:"default_value,omitempty"`
	ExtAttrs ExtAttrs `json:"extended_attributes,omitempty" msgpack:"extended_attributes,omitempty"`
}

type Enum struct {
	Name   string   `json:"name" msgpack:"name"`
	Values []string `json:"values" msgpack:"values"`
}
