//go:build nodatetime

package toml

// DatetimeKind distinguishes the four datetime shapes TOML 1.0
// permits (spec.md §3). Kept even in the "nodatetime" build so that
// callers inspecting a parsed Datetime's Kind compile unchanged.
type DatetimeKind string

const (
	OffsetDateTime DatetimeKind = "offset_datetime"
	LocalDateTime  DatetimeKind = "local_datetime"
	LocalDate      DatetimeKind = "local_date"
	LocalTime      DatetimeKind = "local_time"
)

// Datetime is the opaque-lexical-string fallback used when the
// "nodatetime" build tag is set: the datetime-shaped token still
// parses, but is stored as its original text rather than decoded
// into calendar/clock fields (spec.md §3).
type Datetime struct {
	Kind DatetimeKind
	Text string
}

func (d Datetime) Type() string { return "datetime" }

func (d Datetime) tomlValue() {}

func (d Datetime) Consume(c Consumer) error { return c.VisitDatetime(d) }

func (d Datetime) String() string { return d.Text }

// datetimeFields mirrors the scratch struct in datetime_on.go; only
// Kind and Text survive into the opaque-string build.
type datetimeFields struct {
	Kind                       DatetimeKind
	Year, Month, Day           int
	Hour, Minute, Second, Nsec int
	OffsetMinutes              int
	Text                       string
}

func makeDatetime(f datetimeFields) (Value, error) {
	return Datetime{Kind: f.Kind, Text: f.Text}, nil
}
