// Package tpl fills placeholder templates for batch submission scripts
// and simulation engine input files.
//
// Placeholders are written {name} or {name:format}, where the format
// directive controls width, alignment and numeric rendering, e.g.
// "run {run:>8};" renders run=5 right-justified in an 8 column field.
// Doubled braces ({{ and }}) are literal braces. Shell variable
// references such as $PBS_O_WORKDIR or ${PBS_O_WORKDIR} are resolved
// by the batch system at job run time, not by this package, and pass
// through untouched.
package tpl

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
)

// Values maps placeholder names to literal substitution values.
// Supported value kinds are strings, integers, floats and bools;
// anything else is rendered with fmt.Sprint.
type Values map[string]interface{}

// Template is a parsed template, ready to be filled.
type Template struct {
	name string
	segs []segment
}

type segment struct {
	lit string
	ph  *placeholder
}

type placeholder struct {
	key  string
	spec formatSpec
}

// Parse parses template text. The name is used in error messages only.
// Malformed placeholder syntax is fatal and reported with line and
// column of the offending token.
func Parse(name, text string) (*Template, error) {
	t := &Template{name: name}
	var lit bytes.Buffer

	line, col := 1, 1
	pos := 0
	for pos < len(text) {
		c := text[pos]
		switch c {
		case '{':
			if pos+1 < len(text) && text[pos+1] == '{' {
				lit.WriteByte('{')
				pos += 2
				col += 2
				continue
			}
			// ${name} is a run-time shell reference, not a placeholder
			if pos > 0 && text[pos-1] == '$' {
				end := strings.IndexByte(text[pos:], '}')
				if end >= 0 && !strings.Contains(text[pos:pos+end], "\n") {
					lit.WriteString(text[pos : pos+end+1])
					pos += end + 1
					col += end + 1
				} else {
					lit.WriteByte('{')
					pos++
					col++
				}
				continue
			}
			end := strings.IndexByte(text[pos:], '}')
			if end < 0 {
				return nil, &SyntaxError{Name: name, Line: line, Col: col, Msg: "unclosed placeholder"}
			}
			tok := text[pos+1 : pos+end]
			if strings.Contains(tok, "{") || strings.Contains(tok, "\n") {
				return nil, &SyntaxError{Name: name, Line: line, Col: col, Msg: "unclosed placeholder"}
			}
			ph, err := parsePlaceholder(tok)
			if err != nil {
				return nil, &SyntaxError{Name: name, Line: line, Col: col, Msg: err.Error()}
			}
			if lit.Len() > 0 {
				t.segs = append(t.segs, segment{lit: lit.String()})
				lit.Reset()
			}
			t.segs = append(t.segs, segment{ph: ph})
			pos += end + 1
			col += end + 1

		case '}':
			if pos+1 < len(text) && text[pos+1] == '}' {
				lit.WriteByte('}')
				pos += 2
				col += 2
				continue
			}
			return nil, &SyntaxError{Name: name, Line: line, Col: col, Msg: "single '}' outside placeholder"}

		case '\n':
			lit.WriteByte('\n')
			pos++
			line++
			col = 1

		default:
			lit.WriteByte(c)
			pos++
			col++
		}
	}
	if lit.Len() > 0 {
		t.segs = append(t.segs, segment{lit: lit.String()})
	}
	return t, nil
}

// ParseFile reads and parses a template file.
func ParseFile(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %v", err)
	}
	return Parse(path, string(b))
}

// Must panics if err is non-nil. Intended for built-in templates.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

func parsePlaceholder(tok string) (*placeholder, error) {
	key := tok
	rawSpec := ""
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		key = tok[:i]
		rawSpec = tok[i+1:]
	}
	if key == "" {
		return nil, fmt.Errorf("empty placeholder name")
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return nil, fmt.Errorf("invalid placeholder name %q", key)
		}
	}
	spec, err := parseFormatSpec(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("placeholder %q: %v", key, err)
	}
	return &placeholder{key: key, spec: spec}, nil
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string {
	return t.name
}

// Placeholders returns the unique placeholder names in order of first use.
func (t *Template) Placeholders() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range t.segs {
		if s.ph != nil && !seen[s.ph.key] {
			seen[s.ph.key] = true
			keys = append(keys, s.ph.key)
		}
	}
	return keys
}

// Fill substitutes values into the template and returns the concrete
// text. Every placeholder must have a value; missing keys abort the
// fill before any output is produced. Values with no matching
// placeholder are ignored here; see Unused and FillStrict.
func (t *Template) Fill(values Values) (string, error) {
	if missing := t.missing(values); len(missing) > 0 {
		return "", &MissingKeyError{Name: t.name, Keys: missing}
	}

	var buf bytes.Buffer
	var errs *multierror.Error
	for _, s := range t.segs {
		if s.ph == nil {
			buf.WriteString(s.lit)
			continue
		}
		out, err := s.ph.spec.apply(values[s.ph.key])
		if err != nil {
			errs = multierror.Append(errs, &ValueError{Key: s.ph.key, Msg: err.Error()})
			continue
		}
		buf.WriteString(out)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return "", fmt.Errorf("template %s: %w", t.name, err)
	}
	return buf.String(), nil
}

// FillStrict is Fill, except substitution values with no matching
// placeholder are a fatal UnusedKeyError.
func (t *Template) FillStrict(values Values) (string, error) {
	if unused := t.Unused(values); len(unused) > 0 {
		return "", &UnusedKeyError{Name: t.name, Keys: unused}
	}
	return t.Fill(values)
}

// Unused returns the keys in values that no placeholder references,
// sorted for stable warning output.
func (t *Template) Unused(values Values) []string {
	used := make(map[string]bool)
	for _, s := range t.segs {
		if s.ph != nil {
			used[s.ph.key] = true
		}
	}
	var unused []string
	for k := range values {
		if !used[k] {
			unused = append(unused, k)
		}
	}
	sort.Strings(unused)
	return unused
}

func (t *Template) missing(values Values) []string {
	var missing []string
	for _, key := range t.Placeholders() {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
