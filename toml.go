package toml

import "strings"

// bom is the UTF-8 encoding of U+FEFF. spec.md §6 requires rejecting a
// leading byte-order mark outright rather than lexing it as (invalid)
// document content.
const bom = "\uFEFF"

// ParseFromString parses a TOML document and returns its root Table.
// Grounded on the teacher's top-level Unmarshal/parse wiring
// (decode.go), reduced to producing a Value tree instead of
// reflect-populating a destination, per spec.md §6. The error return
// is the concrete *ParseError rather than the `error` interface: every
// caller in this package (and spec.md §6's own error shape) wants the
// structured Kind/Offset/Line/Column/KeyPath fields, and a concrete
// pointer still satisfies `error` wherever a caller only wants that.
func ParseFromString(input string, opts ...ParseOption) (*Table, *ParseError) {
	if strings.HasPrefix(input, bom) {
		return nil, &ParseError{Kind: ErrUnexpectedChar, Offset: 0, Line: 1, Column: 1, msg: "leading UTF-8 BOM is not allowed"}
	}
	p := newParser(input, newParseOptions(opts))
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ParseFromBytes is ParseFromString for callers already holding a
// []byte (e.g. os.ReadFile).
func ParseFromBytes(input []byte, opts ...ParseOption) (*Table, *ParseError) {
	return ParseFromString(string(input), opts...)
}
