package alder

import (
	"fmt"
	"math"
	"math/rand/v2"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// RuleConfig is the YAML form of one replacement candidate.
type RuleConfig struct {
	Replacement string  `yaml:"replacement"`
	Weight      float64 `yaml:"weight"`
}

// TreeConfig is a complete, serializable tree recipe: the grammar on one
// side and the turtle geometry on the other. Angles are in degrees here
// (the artist-facing unit); they are converted to radians when building
// TurtleParams.
type TreeConfig struct {
	Axiom      string                  `yaml:"axiom"`
	Rules      map[string][]RuleConfig `yaml:"rules"`
	Iterations int                     `yaml:"iterations"`
	Variation  bool                    `yaml:"variation"`

	Length      float64 `yaml:"length"`
	Radius      float64 `yaml:"radius"`
	Angle       float64 `yaml:"angle"`       // degrees
	AngleJitter float64 `yaml:"angleJitter"` // degrees, applied only when Variation is true
	LengthRatio float64 `yaml:"lengthRatio"`
	RadiusRatio float64 `yaml:"radiusRatio"`
	Sides       int     `yaml:"sides"`
}

// DefaultTreeConfig returns a four-iteration tree that forks into four
// 45-degree children per segment, halving size each level: 6-sided branches,
// trunk length 3, radius 0.2, and a ±10 degree jitter that activates with
// variation mode.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		Axiom: "F",
		Rules: map[string][]RuleConfig{
			"F": {{Replacement: "F[+F][-F][&F][^F]", Weight: 1}},
		},
		Iterations:  4,
		Length:      3,
		Radius:      0.2,
		Angle:       45,
		AngleJitter: 10,
		LengthRatio: 0.5,
		RadiusRatio: 0.5,
		Sides:       6,
	}
}

// LoadTreeConfig parses YAML into a TreeConfig, filling unset fields from
// DefaultTreeConfig and validating the result. Parse failures and invalid
// values wrap [ErrConfig].
func LoadTreeConfig(data []byte) (TreeConfig, error) {
	cfg := DefaultTreeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TreeConfig{}, fmt.Errorf("alder: %w: parsing tree config: %v", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return TreeConfig{}, err
	}
	return cfg, nil
}

// Validate checks everything that can be checked without running the
// grammar: rule keys must be single symbols, weights must pass NewRuleSet,
// and the geometry numbers must be finite and positive where required.
func (c TreeConfig) Validate() error {
	if c.Axiom == "" {
		return fmt.Errorf("alder: %w: empty axiom", ErrConfig)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("alder: %w: negative iteration count %d", ErrConfig, c.Iterations)
	}
	if _, err := c.RuleSet(); err != nil {
		return err
	}
	if math.IsNaN(c.Angle) || math.IsInf(c.Angle, 0) {
		return fmt.Errorf("alder: %w: angle is %v", ErrConfig, c.Angle)
	}
	if c.AngleJitter < 0 || math.IsNaN(c.AngleJitter) || math.IsInf(c.AngleJitter, 0) {
		return fmt.Errorf("alder: %w: angle jitter is %v", ErrConfig, c.AngleJitter)
	}
	return c.TurtleParams(nil).validate()
}

// RuleSet builds the validated grammar from the config's rule table.
// Rule keys must be exactly one symbol.
func (c TreeConfig) RuleSet() (*RuleSet, error) {
	table := make(map[rune][]Replacement, len(c.Rules))
	for key, candidates := range c.Rules {
		sym, size := utf8.DecodeRuneInString(key)
		if sym == utf8.RuneError || size != len(key) {
			return nil, fmt.Errorf("alder: %w: rule key %q is not a single symbol", ErrConfig, key)
		}
		reps := make([]Replacement, len(candidates))
		for i, rc := range candidates {
			reps[i] = Replacement{Production: rc.Replacement, Weight: rc.Weight}
		}
		table[sym] = reps
	}
	return NewRuleSet(table)
}

// TurtleParams converts the config's artist-facing units into interpreter
// parameters. Jitter only applies when variation mode is on, matching the
// grammar side. rng may be nil for process-wide randomness.
func (c TreeConfig) TurtleParams(rng *rand.Rand) TurtleParams {
	jitter := 0.0
	if c.Variation {
		jitter = c.AngleJitter * math.Pi / 180
	}
	return TurtleParams{
		Length:      c.Length,
		Radius:      c.Radius,
		Angle:       c.Angle * math.Pi / 180,
		AngleJitter: jitter,
		LengthRatio: c.LengthRatio,
		RadiusRatio: c.RadiusRatio,
		Rand:        rng,
	}
}

// Grow runs the whole pipeline: validate, expand, interpret. rng seeds both
// rule selection and angle jitter; nil uses the process-wide generator,
// a seeded source makes the tree fully reproducible.
func (c TreeConfig) Grow(rng *rand.Rand) ([]Branch, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rules, err := c.RuleSet()
	if err != nil {
		return nil, err
	}
	symbols, err := Expand(c.Axiom, rules, c.Iterations, ExpandConfig{
		Variation: c.Variation,
		Rand:      rng,
	})
	if err != nil {
		return nil, err
	}
	return Interpret(symbols, c.TurtleParams(rng))
}
