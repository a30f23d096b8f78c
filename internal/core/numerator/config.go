package numerator

// Strategy selects how numbers are allocated.
type Strategy int

const (
	// StrategyStrict takes one number at a time with UPDATE ... RETURNING.
	// Gapless, one round trip per number.
	StrategyStrict Strategy = iota

	// StrategyCached reserves a range in memory and hands numbers out
	// locally. Faster under load; a restart abandons the unused remainder
	// of the range.
	StrategyCached
)

// Options tunes allocation behavior per call site.
type Options struct {
	Strategy Strategy

	// RangeSize is how many numbers StrategyCached reserves at once.
	// Zero means 50.
	RangeSize int64
}

// DefaultOptions allocates strictly.
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Config identifies a sequence and its rendering.
type Config struct {
	// Prefix such as "MAT" or "REQ".
	Prefix string

	// IncludeYear renders PREFIX-YEAR-NNNNN instead of PREFIX-NNNNN.
	IncludeYear bool

	// PadWidth is the minimum digit width, zero means 5.
	PadWidth int

	// ResetPeriod is "year", "month", or "never".
	ResetPeriod string
}

// DefaultConfig numbers PREFIX-YEAR-NNNNN with a yearly reset.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
