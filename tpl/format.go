package tpl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatSpec is a parsed format directive:
//
//	[[fill]align][sign][0][width][.precision][verb]
//
// align is one of "<>^=", verb one of "sdfeEgG". The grammar follows
// the format fields the repository's templates use, so filled scripts
// line up column for column with the originals.
type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	zeroPad   bool
	width     int
	precision int
	verb      byte
}

func parseFormatSpec(s string) (formatSpec, error) {
	spec := formatSpec{fill: ' ', precision: -1}
	if s == "" {
		return spec, nil
	}

	rs := []rune(s)
	i := 0

	isAlign := func(r rune) bool { return r == '<' || r == '>' || r == '^' || r == '=' }
	if len(rs) >= 2 && isAlign(rs[1]) {
		spec.fill = rs[0]
		spec.align = byte(rs[1])
		i = 2
	} else if isAlign(rs[0]) {
		spec.align = byte(rs[0])
		i = 1
	}

	if i < len(rs) && (rs[i] == '+' || rs[i] == ' ') {
		spec.sign = byte(rs[i])
		i++
	} else if i < len(rs) && rs[i] == '-' {
		// minus-only is the default, nothing to record
		i++
	}

	if i < len(rs) && rs[i] == '0' {
		spec.zeroPad = true
		if spec.align == 0 {
			spec.fill = '0'
			spec.align = '='
		}
		i++
	}

	start := i
	for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
		i++
	}
	if i > start {
		w, err := strconv.Atoi(string(rs[start:i]))
		if err != nil {
			return spec, fmt.Errorf("bad width %q", string(rs[start:i]))
		}
		spec.width = w
	}

	if i < len(rs) && rs[i] == '.' {
		i++
		start = i
		for i < len(rs) && rs[i] >= '0' && rs[i] <= '9' {
			i++
		}
		if i == start {
			return spec, fmt.Errorf("missing precision after '.'")
		}
		p, err := strconv.Atoi(string(rs[start:i]))
		if err != nil {
			return spec, fmt.Errorf("bad precision %q", string(rs[start:i]))
		}
		spec.precision = p
	}

	if i < len(rs) {
		v := byte(rs[i])
		switch v {
		case 's', 'd', 'f', 'e', 'E', 'g', 'G':
			spec.verb = v
			i++
		default:
			return spec, fmt.Errorf("unknown format verb %q", string(rs[i]))
		}
	}
	if i != len(rs) {
		return spec, fmt.Errorf("trailing characters in format directive %q", s)
	}
	return spec, nil
}

// apply renders one substitution value per the directive.
func (f formatSpec) apply(v interface{}) (string, error) {
	body, numeric, neg, err := f.render(v)
	if err != nil {
		return "", err
	}

	sign := ""
	if numeric {
		switch {
		case neg:
			sign = "-"
			body = strings.TrimPrefix(body, "-")
		case f.sign == '+':
			sign = "+"
		case f.sign == ' ':
			sign = " "
		}
	}

	return f.pad(sign, body, numeric), nil
}

func (f formatSpec) render(v interface{}) (body string, numeric, neg bool, err error) {
	switch f.verb {
	case 'd':
		n, err := toInt(v)
		if err != nil {
			return "", false, false, err
		}
		return strconv.FormatInt(n, 10), true, n < 0, nil

	case 'f', 'e', 'E', 'g', 'G':
		x, err := toFloat(v)
		if err != nil {
			return "", false, false, err
		}
		prec := f.precision
		if prec < 0 && f.verb != 'g' && f.verb != 'G' {
			prec = 6
		}
		return strconv.FormatFloat(x, f.verb, prec, 64), true, x < 0, nil

	case 's':
		s := toString(v)
		if f.precision >= 0 && f.precision < utf8.RuneCountInString(s) {
			s = string([]rune(s)[:f.precision])
		}
		return s, false, false, nil
	}

	// No verb: numbers keep their natural rendering, everything else
	// is treated as a string.
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, _ := toInt(x)
		return strconv.FormatInt(n, 10), true, n < 0, nil
	case float32, float64:
		g, _ := toFloat(x)
		return strconv.FormatFloat(g, 'g', -1, 64), true, g < 0, nil
	default:
		s := toString(v)
		if f.precision >= 0 && f.precision < utf8.RuneCountInString(s) {
			s = string([]rune(s)[:f.precision])
		}
		return s, false, false, nil
	}
}

func (f formatSpec) pad(sign, body string, numeric bool) string {
	n := utf8.RuneCountInString(body) + len(sign)
	if n >= f.width {
		return sign + body
	}
	gap := f.width - n
	pad := strings.Repeat(string(f.fill), gap)

	align := f.align
	if align == 0 {
		// numbers right-align by default, strings left-align
		if numeric {
			align = '>'
		} else {
			align = '<'
		}
	}

	switch align {
	case '<':
		return sign + body + pad
	case '^':
		left := gap / 2
		return pad[:leftBytes(f.fill, left)] + sign + body + pad[leftBytes(f.fill, left):]
	case '=':
		return sign + pad + body
	default: // '>'
		return pad + sign + body
	}
}

func leftBytes(fill rune, n int) int {
	return n * utf8.RuneLen(fill)
}

func toInt(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%v (%T) is not an integer", v, v)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		g, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", x)
		}
		return g, nil
	default:
		n, err := toInt(v)
		if err != nil {
			return 0, fmt.Errorf("%v (%T) is not a number", v, v)
		}
		return float64(n), nil
	}
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
