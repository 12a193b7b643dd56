package policy

import (
	"strings"

	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// AllowedAttrs is the per-type attribute read allow-list (spec.md §4.2),
// keyed by the value's Kind() tag. It is a package variable, so a caller
// may extend it; every entry in use today is defined here, and no package
// of this module modifies it.
var AllowedAttrs = map[string]map[string]bool{
	"math": setOf(
		"pi", "e", "tau", "inf", "nan",
		"sqrt", "floor", "ceil", "trunc", "fabs", "factorial",
		"log", "log2", "log10", "exp", "pow",
		"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"degrees", "radians", "gcd", "isclose", "isnan", "isinf",
	),
	"date": setOf(
		"year", "month", "day", "weekday", "isoweekday",
		"isoformat", "replace", "toordinal", "timetuple",
	),
	"datetime": setOf(
		"year", "month", "day", "hour", "minute", "second", "microsecond",
		"weekday", "isoweekday", "date", "time",
		"isoformat", "replace", "timestamp",
	),
	// datetime_class is the pre-bound `datetime` name itself (a
	// constructor), distinct from "datetime" instances it produces.
	"datetime_class": setOf("now"),
	"list":  setOf("count", "index"),
	"tuple": setOf("count", "index"),
	"dict":  setOf("items", "keys", "values", "get"),
	"set":   setOf("union", "intersection", "difference"),
	"str":   setOf("format", "upper", "lower", "strip", "split", "join", "replace"),
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// isDunder reports whether name begins and ends with a double underscore,
// the global ban applied before any per-type allow-list lookup.
func isDunder(name string) bool {
	return len(name) >= 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// CheckAttributeRead enforces spec.md §4.2: dunder ban first, then a
// per-type allow-list for known kinds, deny-all for anything else.
// knownKind is empty for "unknown object" hosts (no type tag participates
// in AllowedAttrs), which denies every read unconditionally.
func CheckAttributeRead(knownKind, name string) error {
	if isDunder(name) {
		return calcerr.NewBadSyntax("You can not access `" + name + "` attribute")
	}
	allowed, ok := AllowedAttrs[knownKind]
	if ok && allowed[name] {
		return nil
	}
	return calcerr.NewBadSyntax("You can not access `" + name + "` attribute")
}

// CheckAttributeWrite always denies — attribute writes have no permitted
// form (spec.md §4.2).
func CheckAttributeWrite() error {
	return calcerr.NewBadSyntax("This assign method is not allowed")
}

// CheckAttributeDelete always denies.
func CheckAttributeDelete() error {
	return calcerr.NewBadSyntax("This delete method is not allowed")
}
