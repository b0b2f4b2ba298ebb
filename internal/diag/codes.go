package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// type mapping
	MapInfo                  Code = 1000
	MapUnknownType           Code = 1001
	MapBadDescriptor         Code = 1002
	MapVariadicComposite     Code = 1003
	MapRangeConflict         Code = 1004
	MapUnsupportedConversion Code = 1005

	// overload resolution
	OvlInfo                  Code = 2000
	OvlNoDistinguishingIndex Code = 2001
	OvlOptionalityMismatch   Code = 2002
	OvlIndistinctTypes       Code = 2003
	OvlAmbiguousLength       Code = 2004
	OvlAttributeConflict     Code = 2005

	// definition structure
	StrInfo                Code = 3000
	StrDeleterNotBoolean   Code = 3001
	StrBadSpecialOperation Code = 3002
	StrDuplicateDefinition Code = 3003

	// extended attributes
	ExtInfo             Code = 4000
	ExtUnknownAttribute Code = 4001

	// input / output
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001
	IODecodeError   Code = 5002
	IOWriteError    Code = 5003

	// project configuration
	ProjInfo            Code = 6000
	ProjManifestError   Code = 6001
	ProjGlobalInfoError Code = 6002
	ProjNoDefinitions   Code = 6003

	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	MapInfo:                  "Type mapping information",
	MapUnknownType:           "IDL type has no native representation",
	MapBadDescriptor:         "Malformed type descriptor",
	MapVariadicComposite:     "Union or dictionary in variadic argument",
	MapRangeConflict:         "[EnforceRange] and [Clamp] are mutually exclusive",
	MapUnsupportedConversion: "Unsupported conversion",
	OvlInfo:                  "Overload information",
	OvlNoDistinguishingIndex: "No distinguishing argument index",
	OvlOptionalityMismatch:   "Optionality lists disagree before distinguishing index",
	OvlIndistinctTypes:       "Types at distinguishing index are not distinct",
	OvlAmbiguousLength:       "Function length depends on runtime enabled features",
	OvlAttributeConflict:     "Overloads have conflicting extended attribute",
	StrInfo:                  "Definition structure information",
	StrDeleterNotBoolean:     "Property deleter must return boolean",
	StrBadSpecialOperation:   "Malformed special operation",
	StrDuplicateDefinition:   "Duplicate definition",
	ExtInfo:                  "Extended attribute information",
	ExtUnknownAttribute:      "Unknown extended attribute ignored",
	IOInfo:                   "I/O information",
	IOLoadFileError:          "I/O load file error",
	IODecodeError:            "Cannot decode definition file",
	IOWriteError:             "I/O write error",
	ProjInfo:                 "Project information",
	ProjManifestError:        "Invalid project manifest",
	ProjGlobalInfoError:      "Invalid global information",
	ProjNoDefinitions:        "No definitions found",
	ObsInfo:                  "Observability information",
	ObsTimings:               "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MAP%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("OVL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EXT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
