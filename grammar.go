package alder

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// weightTolerance is how far a multi-candidate rule's weights may drift from
// summing to exactly 1 before the rule set is rejected.
const weightTolerance = 1e-6

const (
	// DefaultMaxIterations caps Expand's iteration count unless overridden.
	DefaultMaxIterations = 12
	// DefaultMaxLength caps the expanded string length (in symbols) unless
	// overridden.
	DefaultMaxLength = 1 << 20
)

// Replacement is one candidate production for a rule. Weight is its
// probability of being chosen when variation is enabled; weights of a
// multi-candidate rule must sum to 1.
type Replacement struct {
	Production string
	Weight     float64
}

// rule is a validated, immutable set of candidates for one symbol.
// best indexes the highest-weight candidate, used when variation is off.
type rule struct {
	candidates []Replacement
	best       int
}

// RuleSet maps symbols to their validated replacement candidates.
// Immutable once constructed; safe to reuse across Expand calls.
type RuleSet struct {
	rules map[rune]rule
}

// NewRuleSet validates and freezes a rule table. Each symbol needs at least
// one candidate; every weight must be finite and positive; and when a symbol
// has more than one candidate the weights must sum to 1 (within a small
// tolerance). Violations return an error wrapping [ErrConfig].
//
// An empty Production is legal: it deletes the symbol during expansion.
func NewRuleSet(table map[rune][]Replacement) (*RuleSet, error) {
	rs := &RuleSet{rules: make(map[rune]rule, len(table))}
	for sym, candidates := range table {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("alder: %w: rule for %q has no candidates", ErrConfig, sym)
		}
		sum := 0.0
		best := 0
		for i, c := range candidates {
			if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight <= 0 {
				return nil, fmt.Errorf("alder: %w: rule for %q has weight %v", ErrConfig, sym, c.Weight)
			}
			sum += c.Weight
			if c.Weight > candidates[best].Weight {
				best = i
			}
		}
		if len(candidates) > 1 && math.Abs(sum-1) > weightTolerance {
			return nil, fmt.Errorf("alder: %w: weights for %q sum to %v, want 1", ErrConfig, sym, sum)
		}
		frozen := make([]Replacement, len(candidates))
		copy(frozen, candidates)
		rs.rules[sym] = rule{candidates: frozen, best: best}
	}
	return rs, nil
}

// Candidates returns the replacement candidates for sym, or ok=false if the
// symbol is a terminal (no rule). The returned slice must not be modified.
func (rs *RuleSet) Candidates(sym rune) (candidates []Replacement, ok bool) {
	r, ok := rs.rules[sym]
	return r.candidates, ok
}

// ExpandConfig tunes one expansion run. The zero value is valid: variation
// off, process-wide randomness, default safety bounds.
type ExpandConfig struct {
	// Variation enables weighted random rule selection. When false, a
	// multi-candidate rule deterministically resolves to its highest-weight
	// candidate.
	Variation bool
	// Rand is the random source for weighted selection. Nil uses the
	// process-wide generator; inject a seeded source for repeatable output.
	Rand *rand.Rand
	// MaxIterations caps the iteration count. Zero means DefaultMaxIterations.
	MaxIterations int
	// MaxLength caps the expanded string length, in bytes (one per symbol
	// for the ASCII alphabets L-systems use). Zero means DefaultMaxLength.
	MaxLength int
}

// Expand rewrites axiom through the given number of full passes and returns
// the final symbol string. Each pass replaces every symbol independently:
// symbols without a rule pass through unchanged, and each occurrence of a
// stochastic symbol rolls its own candidate, so identical symbols in one
// string may diverge when variation is on.
//
// Zero iterations returns the axiom unchanged. A negative iteration count
// wraps [ErrConfig]; exceeding either safety bound wraps [ErrResource].
func Expand(axiom string, rules *RuleSet, iterations int, cfg ExpandConfig) (string, error) {
	if rules == nil {
		return "", fmt.Errorf("alder: %w: nil rule set", ErrConfig)
	}
	if iterations < 0 {
		return "", fmt.Errorf("alder: %w: negative iteration count %d", ErrConfig, iterations)
	}
	maxIter := cfg.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	if iterations > maxIter {
		return "", fmt.Errorf("alder: %w: %d iterations exceeds cap of %d", ErrResource, iterations, maxIter)
	}
	maxLen := cfg.MaxLength
	if maxLen == 0 {
		maxLen = DefaultMaxLength
	}
	if len(axiom) > maxLen {
		return "", fmt.Errorf("alder: %w: axiom length %d exceeds cap of %d", ErrResource, len(axiom), maxLen)
	}

	current := axiom
	var next strings.Builder
	for range iterations {
		next.Reset()
		// Expanded strings are usually several times longer than their
		// input; 2x is a cheap starting guess.
		next.Grow(min(len(current)*2, maxLen))
		for _, sym := range current {
			r, ok := rules.rules[sym]
			if !ok {
				next.WriteRune(sym)
			} else {
				next.WriteString(pick(r, cfg))
			}
			if next.Len() > maxLen {
				return "", fmt.Errorf("alder: %w: expansion exceeds %d symbols", ErrResource, maxLen)
			}
		}
		current = next.String()
	}
	return current, nil
}

// pick selects one candidate from a rule: the highest-weight candidate when
// variation is off, otherwise a weighted random roll.
func pick(r rule, cfg ExpandConfig) string {
	if !cfg.Variation || len(r.candidates) == 1 {
		return r.candidates[r.best].Production
	}
	roll := randFloat(cfg.Rand)
	acc := 0.0
	for _, c := range r.candidates {
		acc += c.Weight
		if roll < acc {
			return c.Production
		}
	}
	// Floating point can leave roll just above the accumulated sum.
	return r.candidates[len(r.candidates)-1].Production
}

// randFloat returns a uniform float64 in [0, 1) from rng, falling back to
// the process-wide generator when rng is nil.
func randFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
