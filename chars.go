package toml

// Character classification helpers shared by the lexer and the
// serializer's bare-key detection.

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHex(r rune) bool {
	switch {
	default:
		return false
	case 'A' <= r && r <= 'F':
	case 'a' <= r && r <= 'f':
	case '0' <= r && r <= '9':
	}
	return true
}

func isOctal(r rune) bool {
	return '0' <= r && r <= '7'
}

func isBinary(r rune) bool {
	return r == '0' || r == '1'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isBareKeyChar(r rune) bool {
	switch {
	default:
		return false
	case 'A' <= r && r <= 'Z':
	case 'a' <= r && r <= 'z':
	case '0' <= r && r <= '9':
	case r == '-' || r == '_':
	}
	return true
}

// isBareKey reports whether s matches the bare-key grammar in full,
// used by the serializer to decide whether a key needs quoting.
func isBareKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isBareKeyChar(r) {
			return false
		}
	}
	return true
}

// isControl reports whether r is a control character disallowed in
// comments and literal strings (tab is the sole exception, handled by
// callers before reaching this predicate).
func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
