package toml

// ParseOption configures a single Parse call. Grounded on spec.md §6's
// `strict`/recursion-limit knobs; spec.md frames these as compile-time
// feature flags, but neither actually needs a distinct type the rest
// of the package must special-case at build time — a functional
// option lets one build serve both modes, which the datetime flag
// (datetime_on.go/datetime_off.go, a real type-level difference)
// cannot do. See DESIGN.md.
type ParseOption func(*parseOptions)

type parseOptions struct {
	strict       bool
	recursionMax int
}

const defaultRecursionLimit = 128

func newParseOptions(opts []ParseOption) parseOptions {
	o := parseOptions{recursionMax: defaultRecursionLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Strict enables array-homogeneity enforcement and rejects arrays
// whose elements do not share a single type (spec.md §3, §8 scenario
// 6).
func Strict() ParseOption {
	return func(o *parseOptions) { o.strict = true }
}

// MaxDepth overrides the nesting-depth bound for inline tables and
// arrays. Exceeding it yields a RecursionLimit error rather than
// exhausting the native call stack (spec.md §7).
func MaxDepth(n int) ParseOption {
	return func(o *parseOptions) { o.recursionMax = n }
}

// BindOption configures a single Bind/Unmarshal call in the
// structbind driver (spec.md §4.7). Defined here so both packages
// share the functional-option idiom; structbind aliases this type as
// its own Option and reads the resolved settings through
// ResolveBindOptions.
type BindOption func(*bindOptions)

type bindOptions struct {
	strictOverflow bool
}

func newBindOptions(opts []BindOption) bindOptions {
	var o bindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// StrictOverflow rejects integers that don't fit the destination
// field width instead of silently truncating (spec.md §6's `strict`
// flag applied to deserialize coercions).
func StrictOverflow() BindOption {
	return func(o *bindOptions) { o.strictOverflow = true }
}

// BindOptions is the resolved, read-only view of a BindOption set,
// exposed so external C7 drivers (structbind) can honor it without
// reaching into this package's unexported option state.
type BindOptions struct {
	StrictOverflow bool
}

// ResolveBindOptions applies opts and returns the resulting settings.
func ResolveBindOptions(opts ...BindOption) BindOptions {
	o := newBindOptions(opts)
	return BindOptions{StrictOverflow: o.strictOverflow}
}
