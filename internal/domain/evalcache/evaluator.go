package evalcache

import "github.com/okian/kitcheck/internal/domain/conflict"

// Evaluator serves repeated comparisons from a Cache. Failed evaluations are
// not cached.
type Evaluator struct {
	next  *conflict.Evaluator
	cache Cache
}

// Wrap returns an Evaluator that consults cache before next.
func Wrap(cache Cache, next *conflict.Evaluator) *Evaluator {
	return &Evaluator{next: next, cache: cache}
}

// Evaluate returns the cached result for the pair or computes and stores it.
func (e *Evaluator) Evaluate(hexA, hexB string) (conflict.Result, error) {
	key := Key{A: hexA, B: hexB, BaseDeltaE: e.next.BaseDeltaE(), BaseContrast: e.next.BaseContrast()}
	if r, ok := e.cache.Get(key); ok {
		return r, nil
	}
	r, err := e.next.Evaluate(hexA, hexB)
	if err != nil {
		return conflict.Result{}, err
	}
	e.cache.Put(key, r)
	return r, nil
}
