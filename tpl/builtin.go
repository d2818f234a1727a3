package tpl

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

// Built-in templates shipped with the tool. These reproduce the
// cluster submission preambles and engine input files the lab runs
// with; the placeholder layout is part of the tool's interface and
// must stay byte for byte stable.
//
//go:embed templates
var builtinFS embed.FS

// BuiltinNames lists the built-in template names, sorted.
func BuiltinNames() []string {
	entries, _ := builtinFS.ReadDir("templates")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tpl"))
	}
	sort.Strings(names)
	return names
}

// BuiltinText returns the raw text of a built-in template.
func BuiltinText(name string) (string, error) {
	b, err := builtinFS.ReadFile("templates/" + name + ".tpl")
	if err != nil {
		return "", fmt.Errorf("no built-in template %q, have: %s",
			name, strings.Join(BuiltinNames(), ", "))
	}
	return string(b), nil
}

// Builtin parses and returns a built-in template by name.
func Builtin(name string) (*Template, error) {
	text, err := BuiltinText(name)
	if err != nil {
		return nil, err
	}
	return Parse(name, text)
}
