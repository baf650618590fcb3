package styles

import "strings"

// substitute replaces $name and $(name) references outside quoted strings.
// References lookup does not know are left in place and returned in missing.
func substitute(s string, lookup func(name string) (string, bool)) (out string, missing []string) {
	if !strings.Contains(s, "$") {
		return s, nil
	}

	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
			b.WriteByte(c)
			continue
		case '$':
		default:
			b.WriteByte(c)
			continue
		}

		name, width := variableAt(s[i+1:])
		if name == "" {
			b.WriteByte(c)
			continue
		}

		if value, ok := lookup(name); ok {
			b.WriteString(value)
		} else {
			missing = append(missing, name)
			b.WriteString(s[i : i+1+width])
		}
		i += width
	}
	return b.String(), missing
}

// variableAt parses a variable name at the start of s, in the bare or the
// parenthesised form. width counts the bytes consumed.
func variableAt(s string) (name string, width int) {
	if strings.HasPrefix(s, "(") {
		end := strings.IndexByte(s, ')')
		if end < 0 {
			return "", 0
		}
		name = strings.TrimSpace(s[1:end])
		if name == "" || identLen(name) != len(name) {
			return "", 0
		}
		return name, end + 1
	}
	n := identLen(s)
	return s[:n], n
}

func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			continue
		}
		return i
	}
	return len(s)
}
