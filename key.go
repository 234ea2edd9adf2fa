package toml

import (
	"strconv"
	"strings"
)

// normalizeKey renders a key the way it would appear in serialized
// TOML: unquoted when it matches the bare-key grammar, basic-string
// quoted otherwise (spec.md §4.6: "Empty key → \"\""). Quoting goes
// through quoteString (serialize.go) rather than strconv.Quote: Go's
// quoting emits escapes TOML's basic strings don't have (`\a`, `\v`),
// which would produce invalid TOML for a key containing those control
// characters. Used both by error messages (key-path context) and by
// the serializer.
func normalizeKey(key string) string {
	if isBareKey(key) {
		return key
	}
	return quoteString(key)
}

func combineKeyPath(path, key string) string {
	key = normalizeKey(key)
	if path == "" {
		return key
	}
	return path + "." + key
}

func combineIndexPath(path string, i int) string {
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(i))
	b.WriteByte(']')
	return b.String()
}
