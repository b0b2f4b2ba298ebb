// Package naming derives generated identifiers from IDL names and extended
// attributes.
package naming

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/2gis/2gisqt5android/internal/extattr"
)

// acronyms are kept upper-case when they lead an identifier. CSSOM must be
// matched before CSS.
var acronyms = []string{"CSSOM", "CSS", "HTML", "IME", "JS", "SVG", "URL", "WOFF", "XML", "XSLT"}

// Capitalize upper-cases the first letter or a leading lower-case acronym:
// "url" -> "URL", "cssText" -> "CSSText", "value" -> "Value".
func Capitalize(name string) string {
	if name == "" {
		return ""
	}
	for _, acronym := range acronyms {
		if rest, ok := strings.CutPrefix(name, strings.ToLower(acronym)); ok {
			return acronym + rest
		}
	}
	return inflect.Capitalize(name)
}

// Uncapitalize lower-cases the first letter or a leading acronym:
// "SetURL" -> "setURL", "URLFoo" -> "urlFoo".
func Uncapitalize(name string) string {
	if name == "" {
		return ""
	}
	for _, acronym := range acronyms {
		if rest, ok := strings.CutPrefix(name, acronym); ok {
			return strings.ToLower(acronym) + rest
		}
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// V8ClassName is the wrapper class generated for an interface or dictionary.
func V8ClassName(name string) string {
	return "V8" + name
}

// CppName honours [ImplementedAs].
func CppName(name string, ext extattr.Set) string {
	if impl, ok := ext.ImplementedAs(); ok {
		return impl
	}
	return name
}

// ScopedName qualifies a member call. Partial interfaces and static members
// are called on their class; everything else on the receiver.
func ScopedName(interfaceCpp string, ext extattr.Set, static bool, memberName, base string) string {
	if partial := ext.Get(extattr.PartialInterfaceImplementedAs); partial != "" {
		return partial + "::" + base
	}
	if static || memberName == "Constructor" || memberName == "NamedConstructor" {
		return interfaceCpp + "::" + base
	}
	return "impl->" + base
}

// RuntimeEnabledFunction returns the feature check for [RuntimeEnabled], or
// "" when the attribute is absent.
func RuntimeEnabledFunction(ext extattr.Set) string {
	feature, ok := ext.Value(extattr.RuntimeEnabled)
	if !ok {
		return ""
	}
	return fmt.Sprintf("RuntimeEnabledFeatures::%sEnabled", Uncapitalize(feature))
}

// PerContextEnabledFunction returns the feature check for
// [PerContextEnabled], or "".
func PerContextEnabledFunction(ext extattr.Set) string {
	feature, ok := ext.Value(extattr.PerContextEnabled)
	if !ok {
		return ""
	}
	return fmt.Sprintf("ContextFeatures::%sEnabled", Uncapitalize(feature))
}

// ConditionalString renders [Conditional=A&B] as "ENABLE(A) && ENABLE(B)",
// conditions sorted. It returns "" when the attribute is absent.
func ConditionalString(ext extattr.Set) string {
	conditional, ok := ext.Value(extattr.Conditional)
	if !ok {
		return ""
	}
	for _, op := range []string{"&", "|"} {
		if !strings.Contains(conditional, op) {
			continue
		}
		conditions := strings.Split(conditional, op)
		slices.Sort(conditions)
		for i, c := range conditions {
			conditions[i] = "ENABLE(" + c + ")"
		}
		return strings.Join(conditions, " "+op+op+" ")
	}
	return "ENABLE(" + conditional + ")"
}

// callWithOrder fixes the argument order of [CallWith] values.
var callWithOrder = []struct{ value, argument string }{
	{"ScriptState", "scriptState"},
	{"ExecutionContext", "executionContext"},
	{"ScriptArguments", "scriptArguments.release()"},
	{"ActiveWindow", "callingDOMWindow(info.GetIsolate())"},
	{"FirstWindow", "enteredDOMWindow(info.GetIsolate())"},
	{"Document", "document"},
}

// CallWithArguments returns the leading native arguments requested by key
// (CallWith or ConstructorCallWith).
func CallWithArguments(ext extattr.Set, key extattr.Key) []string {
	var args []string
	for _, cw := range callWithOrder {
		if ext.Contains(key, cw.value) {
			args = append(args, cw.argument)
		}
	}
	return args
}

// ActivityLoggingWorlds returns the world suffixes that log access of the
// given kind ("Getter", "Setter" or "" for any), sorted.
func ActivityLoggingWorlds(ext extattr.Set, access string) []string {
	logActivity, ok := ext.Value(extattr.LogActivity)
	if !ok {
		return nil
	}
	if logActivity != "" && !strings.HasPrefix(logActivity, access) {
		return nil
	}
	if ext.Has(extattr.LogAllWorlds) {
		return []string{"", "ForMainWorld"}
	}
	return []string{""}
}

// ActivityLoggingWorldCheck reports whether logging needs an isolated world
// check at runtime.
func ActivityLoggingWorldCheck(ext extattr.Set) bool {
	return ext.Has(extattr.LogActivity) && !ext.HasAny(extattr.PerWorldBindings, extattr.LogAllWorlds)
}

// EnumValidationExpression checks a string against every enum value.
func EnumValidationExpression(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("string == %q", v)
	}
	return strings.Join(parts, " || ")
}
