package conflict

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithBaseDeltaE sets the baseline perceptual-difference floor.
func WithBaseDeltaE(v float64) Option {
	return func(e *Evaluator) {
		e.baseDeltaE = v
	}
}

// WithBaseContrast sets the baseline contrast-ratio floor.
func WithBaseContrast(v float64) Option {
	return func(e *Evaluator) {
		e.baseContrast = v
	}
}
