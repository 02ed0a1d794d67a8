package derive

import "time"

const defaultMaxPasses = 16

type options struct {
	now          func() time.Time
	strict       bool
	maxPasses    int
	detectCycles bool
	formulas     map[string]Func
}

// Option customises a Recompute call.
type Option func(*options)

// WithClock injects the source of "today" used by date formulas.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithStrict enables fixed-point resolution: passes repeat until no derived
// value changes, up to maxPasses (a non-positive bound uses the default).
func WithStrict(maxPasses int) Option {
	return func(o *options) {
		o.strict = true
		if maxPasses > 0 {
			o.maxPasses = maxPasses
		}
	}
}

// WithCycleDetection rejects schemas whose derivation graph contains a cycle
// before any value is computed.
func WithCycleDetection() Option {
	return func(o *options) {
		o.detectCycles = true
	}
}

// WithFormula registers an additional named formula. Names shadow the
// built-ins.
func WithFormula(name string, fn Func) Option {
	return func(o *options) {
		if name == "" || fn == nil {
			return
		}
		if o.formulas == nil {
			o.formulas = make(map[string]Func)
		}
		o.formulas[name] = fn
	}
}

func newOptions(opts []Option) options {
	cfg := options{
		now:       time.Now,
		maxPasses: defaultMaxPasses,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
