package alder

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.Axiom != "F" {
		t.Errorf("Axiom = %q, want %q", cfg.Axiom, "F")
	}
	if cfg.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", cfg.Iterations)
	}
	if cfg.Length != 3 || cfg.Radius != 0.2 {
		t.Errorf("Length, Radius = %v, %v, want 3, 0.2", cfg.Length, cfg.Radius)
	}
	if cfg.Angle != 45 || cfg.AngleJitter != 10 {
		t.Errorf("Angle, AngleJitter = %v, %v, want 45, 10", cfg.Angle, cfg.AngleJitter)
	}
	if cfg.LengthRatio != 0.5 || cfg.RadiusRatio != 0.5 {
		t.Errorf("ratios = %v, %v, want 0.5, 0.5", cfg.LengthRatio, cfg.RadiusRatio)
	}
	if cfg.Sides != 6 {
		t.Errorf("Sides = %d, want 6", cfg.Sides)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadTreeConfig(t *testing.T) {
	data := []byte(`
axiom: X
rules:
  X:
    - replacement: "F[+X][-X]"
      weight: 1
  F:
    - replacement: "FF"
      weight: 1
iterations: 3
length: 2
radius: 0.15
angle: 30
lengthRatio: 0.8
radiusRatio: 0.7
sides: 8
`)
	cfg, err := LoadTreeConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Axiom != "X" {
		t.Errorf("Axiom = %q, want %q", cfg.Axiom, "X")
	}
	if cfg.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3", cfg.Iterations)
	}
	if cfg.Angle != 30 {
		t.Errorf("Angle = %v, want 30", cfg.Angle)
	}
	if cfg.Sides != 8 {
		t.Errorf("Sides = %d, want 8", cfg.Sides)
	}
	// Unset fields keep their defaults.
	if cfg.AngleJitter != 10 {
		t.Errorf("AngleJitter = %v, want default 10", cfg.AngleJitter)
	}

	branches, err := cfg.Grow(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) == 0 {
		t.Error("Grow produced no branches")
	}
}

func TestLoadTreeConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", `axiom: [unterminated`},
		{"multi-symbol rule key", `
rules:
  FX:
    - replacement: "F"
      weight: 1
`},
		{"weights off", `
rules:
  F:
    - replacement: "FF"
      weight: 0.5
    - replacement: "F"
      weight: 0.6
`},
		{"negative length", `length: -3`},
		{"zero radius", `radius: 0`},
		{"empty axiom", `axiom: ""`},
		{"negative iterations", `iterations: -2`},
		{"negative jitter", `angleJitter: -4`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTreeConfig([]byte(tt.yaml))
			if !errors.Is(err, ErrConfig) {
				t.Errorf("LoadTreeConfig error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestTreeConfigTurtleParamsUnits(t *testing.T) {
	cfg := DefaultTreeConfig()

	params := cfg.TurtleParams(nil)
	if math.Abs(params.Angle-math.Pi/4) > 1e-12 {
		t.Errorf("Angle = %v rad, want pi/4 for 45 degrees", params.Angle)
	}
	// Jitter is gated behind variation mode.
	if params.AngleJitter != 0 {
		t.Errorf("AngleJitter = %v with variation off, want 0", params.AngleJitter)
	}

	cfg.Variation = true
	params = cfg.TurtleParams(nil)
	want := 10 * math.Pi / 180
	if math.Abs(params.AngleJitter-want) > 1e-12 {
		t.Errorf("AngleJitter = %v with variation on, want %v", params.AngleJitter, want)
	}
}

func TestTreeConfigGrowDeterministic(t *testing.T) {
	cfg := DefaultTreeConfig()
	a, err := cfg.Grow(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := cfg.Grow(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("branch counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("branch %d differs between deterministic runs", i)
		}
	}
	// Each pass rewrites every F into five F's: 5^4 draw symbols.
	if len(a) != 625 {
		t.Errorf("branch count = %d, want 625", len(a))
	}
}

func TestTreeConfigGrowSeededVariation(t *testing.T) {
	cfg := DefaultTreeConfig()
	cfg.Variation = true
	cfg.Rules = map[string][]RuleConfig{
		"F": {
			{Replacement: "F[+F][-F]", Weight: 0.6},
			{Replacement: "F[&F][^F]", Weight: 0.4},
		},
	}

	grow := func(seed uint64) []Branch {
		branches, err := cfg.Grow(rand.New(rand.NewPCG(seed, 0)))
		if err != nil {
			t.Fatal(err)
		}
		return branches
	}

	a, b := grow(5), grow(5)
	if len(a) != len(b) {
		t.Fatalf("same seed grew different trees: %d vs %d branches", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("branch %d differs under the same seed", i)
		}
	}
}
