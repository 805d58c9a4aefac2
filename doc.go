// Package alder procedurally generates 3D tree geometry from Lindenmayer
// system (L-system) grammars.
//
// Alder has two independent halves. The grammar engine rewrites an axiom
// string through a configurable number of iterations, with optional weighted
// random rule selection for organic variation. The turtle interpreter walks
// the expanded string once, left to right, and emits one tapered [Branch]
// segment per draw symbol, branching wherever the string pushes and pops the
// turtle's pose.
//
// # Quick start
//
// The fastest way to a tree is a [TreeConfig]:
//
//	cfg := alder.DefaultTreeConfig()
//	branches, err := cfg.Grow(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// For full control, run the two stages yourself:
//
//	rules, _ := alder.NewRuleSet(map[rune][]alder.Replacement{
//		'F': {{Production: "F[+F][-F]", Weight: 1}},
//	})
//	symbols, err := alder.Expand("F", rules, 4, alder.ExpandConfig{})
//	branches, err := alder.Interpret(symbols, alder.DefaultTurtleParams())
//
// # Host seam
//
// The interpreter never touches a renderer. Hosts receive geometry either as
// a []Branch or by implementing [Emitter] and passing it to [InterpretTo].
// Two ready-made hosts ship with the package: [MeshEmitter] accumulates a
// triangle [TreeMesh] for 3D pipelines, and [ProjectBranches] flattens a
// branch list into vertices for [Ebitengine]'s DrawTriangles (see the
// programs under examples/).
//
// # Reproducibility
//
// All randomness (weighted rule choice, angle jitter) flows through an
// injectable *rand.Rand. Pass a seeded source for repeatable trees; pass nil
// to use the process-wide generator.
//
// [Ebitengine]: https://ebitengine.org
package alder
