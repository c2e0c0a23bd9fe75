package prompt

import "strings"

// Substitute replaces {name} markers with values[name]. "{{" and "}}" are
// escapes for literal braces. Markers whose name is not in values are kept
// verbatim so that braces in pasted code survive assembly.
func Substitute(tmpl string, values map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				b.WriteString(tmpl[i:])
				return b.String()
			}
			name := tmpl[i+1 : i+1+end]
			if v, ok := values[name]; ok && isIdent(name) {
				b.WriteString(v)
			} else {
				b.WriteString(tmpl[i : i+end+2])
			}
			i += end + 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
