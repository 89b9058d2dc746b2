package ai

// extractJSON returns the first balanced JSON value opened by open and closed
// by closing, skipping delimiters inside quoted strings.
func extractJSON(s string, opening, closing rune) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch ch {
		case opening:
			if depth == 0 {
				start = i
			}
			depth++
		case closing:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func extractObject(s string) string {
	return extractJSON(s, '{', '}')
}

func extractArray(s string) string {
	return extractJSON(s, '[', ']')
}
