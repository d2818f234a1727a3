package tpl

import (
	"fmt"
	"strings"
)

// SyntaxError describes a malformed placeholder token in a template.
type SyntaxError struct {
	Name string
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template %s: line %d, col %d: %s", e.Name, e.Line, e.Col, e.Msg)
}

// MissingKeyError is returned by Fill when the substitution set has no
// entry for a placeholder referenced by the template. Fill reports all
// missing keys at once.
type MissingKeyError struct {
	Name string
	Keys []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf(
		"template %s: no value for placeholder(s): %s",
		e.Name, strings.Join(e.Keys, ", "),
	)
}

// UnusedKeyError reports substitution values that no placeholder in the
// template references. It is a warning by default; FillStrict turns it
// into a fatal error.
type UnusedKeyError struct {
	Name string
	Keys []string
}

func (e *UnusedKeyError) Error() string {
	return fmt.Sprintf(
		"template %s: unused substitution value(s): %s",
		e.Name, strings.Join(e.Keys, ", "),
	)
}

// ValueError describes a substitution value that can't be rendered with
// the format directives of its placeholder, e.g. {steps:d} given "ten".
type ValueError struct {
	Key string
	Msg string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("placeholder %q: %s", e.Key, e.Msg)
}
