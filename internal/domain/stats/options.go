package stats

// Option applies a configuration option to an Aggregator.
type Option func(*Aggregator)

// WithZeroPaddedMonths formats month keys as "2021-01" instead of "2021-1".
// Padded keys sort lexicographically in calendar order.
func WithZeroPaddedMonths() Option {
	return func(a *Aggregator) {
		a.padMonths = true
	}
}

// WithMonthPadding is WithZeroPaddedMonths driven by a config flag.
func WithMonthPadding(enabled bool) Option {
	return func(a *Aggregator) {
		a.padMonths = enabled
	}
}
