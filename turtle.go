package alder

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Action is the turtle command a symbol maps to.
type Action uint8

const (
	ActionNone     Action = iota // ignore the symbol (markers, comments)
	ActionDraw                   // advance one segment length and emit a Branch
	ActionPush                   // snapshot the pose, descend one depth level
	ActionPop                    // restore the most recent snapshot
	ActionTurnXPos               // rotate +angle about the local X axis
	ActionTurnXNeg               // rotate -angle about the local X axis
	ActionTurnYPos               // rotate +angle about the local Y axis
	ActionTurnYNeg               // rotate -angle about the local Y axis
	ActionTurnZPos               // rotate +angle about the local Z axis (roll)
	ActionTurnZNeg               // rotate -angle about the local Z axis (roll)
)

// DefaultActions returns the conventional bracketed L-system alphabet:
//
//	F        draw
//	+  -     turn about X
//	&  ^     turn about Y
//	\  /     roll about Z
//	[  ]     push / pop
//
// Symbols outside the table are no-ops, so grammars may carry marker
// symbols without declaring them.
func DefaultActions() map[rune]Action {
	return map[rune]Action{
		'F':  ActionDraw,
		'+':  ActionTurnXPos,
		'-':  ActionTurnXNeg,
		'&':  ActionTurnYPos,
		'^':  ActionTurnYNeg,
		'\\': ActionTurnZPos,
		'/':  ActionTurnZNeg,
		'[':  ActionPush,
		']':  ActionPop,
	}
}

// Pose is the turtle's full state: where it is, which way it faces, and the
// segment length/radius it would draw next. Pose is a value type, so pushing
// one onto the branch stack snapshots it by construction; later mutation of
// the live pose can never reach a saved entry.
//
// The turtle's heading is its local +Z axis, so a fresh identity-oriented
// turtle grows straight up a Z-up world.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Length      float64
	Radius      float64
	Depth       int
}

// Heading returns the world-space unit vector the turtle will draw along.
func (p Pose) Heading() mgl64.Vec3 {
	return p.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
}

// TurtleParams configures one interpretation walk.
type TurtleParams struct {
	// Length and Radius are the trunk segment's dimensions.
	Length float64
	Radius float64

	// Angle is the rotation, in radians, applied by each turn action.
	Angle float64

	// LengthRatio and RadiusRatio scale the live segment length and radius
	// on every push, so a branch at depth d draws segments of
	// Length*LengthRatio^d. Values in (0, 1] give the usual shrinking
	// crown; values above 1 are accepted but grow instead.
	LengthRatio float64
	RadiusRatio float64

	// AngleJitter, in radians, perturbs every turn by a uniform random
	// offset in [-AngleJitter, +AngleJitter]. Zero disables jitter.
	AngleJitter float64

	// Actions maps symbols to turtle commands. Nil means DefaultActions().
	Actions map[rune]Action

	// Origin places the turtle in the host's world: Position is where the
	// trunk starts and Orientation which way it grows. The zero quaternion
	// is treated as identity so a zero-value origin grows up from origin.
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	// Rand is the source for angle jitter. Nil uses the process-wide
	// generator; inject a seeded source for repeatable trees.
	Rand *rand.Rand
}

// DefaultTurtleParams returns the package's stock tree proportions:
// segment length 3, radius 0.2, 45 degree turns, and both dimensions
// halving per depth level.
func DefaultTurtleParams() TurtleParams {
	return TurtleParams{
		Length:      3,
		Radius:      0.2,
		Angle:       45 * math.Pi / 180,
		LengthRatio: 0.5,
		RadiusRatio: 0.5,
	}
}

// validate rejects non-finite or non-positive geometry before any walking
// happens, wrapping ErrConfig.
func (p TurtleParams) validate() error {
	checks := []struct {
		name     string
		v        float64
		positive bool
	}{
		{"length", p.Length, true},
		{"radius", p.Radius, true},
		{"length ratio", p.LengthRatio, true},
		{"radius ratio", p.RadiusRatio, true},
		{"angle", p.Angle, false},
		{"angle jitter", p.AngleJitter, false},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("alder: %w: %s is %v", ErrConfig, c.name, c.v)
		}
		if c.positive && c.v <= 0 {
			return fmt.Errorf("alder: %w: %s must be positive, got %v", ErrConfig, c.name, c.v)
		}
	}
	if p.AngleJitter < 0 {
		return fmt.Errorf("alder: %w: angle jitter must not be negative, got %v", ErrConfig, p.AngleJitter)
	}
	return nil
}

// validateBalance scans the symbol string once and rejects unbalanced
// push/pop structure: a pop with no open push, or pushes left open at the
// end. Running this before emission is what guarantees a failing string
// emits no partial tree.
func validateBalance(symbols string, actions map[rune]Action) error {
	depth := 0
	for i, sym := range symbols {
		switch actions[sym] {
		case ActionPush:
			depth++
		case ActionPop:
			depth--
			if depth < 0 {
				return fmt.Errorf("alder: %w: pop at symbol %d with no open push", ErrConfig, i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("alder: %w: %d push symbols left unclosed", ErrConfig, depth)
	}
	return nil
}

// Interpret walks the symbol string and returns every branch of the
// resulting tree, trunk first. It is a pure function of its inputs: no
// state survives the call, so the same string, params, and seed always
// reproduce the same tree.
//
// Interpret returns nil branches alongside any error; a tree is never
// partially delivered.
func Interpret(symbols string, params TurtleParams) ([]Branch, error) {
	var c BranchCollector
	if err := InterpretTo(symbols, params, &c); err != nil {
		return nil, err
	}
	return c.Branches, nil
}

// InterpretTo walks the symbol string and streams each branch to the
// emitter as it is produced. The string and params are fully validated
// before the first Emit call, so on error the emitter receives nothing.
func InterpretTo(symbols string, params TurtleParams, emitter Emitter) error {
	if err := params.validate(); err != nil {
		return err
	}
	actions := params.Actions
	if actions == nil {
		actions = DefaultActions()
	}
	if err := validateBalance(symbols, actions); err != nil {
		return err
	}

	orientation := params.Orientation
	if orientation == (mgl64.Quat{}) {
		orientation = mgl64.QuatIdent()
	}
	live := Pose{
		Position:    params.Position,
		Orientation: orientation.Normalize(),
		Length:      params.Length,
		Radius:      params.Radius,
	}

	// Explicit pose stack instead of recursion: branch depth is bounded by
	// memory, not goroutine stack, and each push stores a value snapshot.
	var stack []Pose

	for _, sym := range symbols {
		switch actions[sym] {
		case ActionDraw:
			end := live.Position.Add(live.Heading().Mul(live.Length))
			emitter.Emit(Branch{
				Start:       live.Position,
				End:         end,
				StartRadius: live.Radius,
				EndRadius:   live.Radius * params.RadiusRatio,
				Depth:       live.Depth,
			})
			live.Position = end

		case ActionPush:
			stack = append(stack, live)
			live.Depth++
			live.Length *= params.LengthRatio
			live.Radius *= params.RadiusRatio

		case ActionPop:
			live = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

		case ActionTurnXPos:
			turn(&live, params, mgl64.Vec3{1, 0, 0}, 1)
		case ActionTurnXNeg:
			turn(&live, params, mgl64.Vec3{1, 0, 0}, -1)
		case ActionTurnYPos:
			turn(&live, params, mgl64.Vec3{0, 1, 0}, 1)
		case ActionTurnYNeg:
			turn(&live, params, mgl64.Vec3{0, 1, 0}, -1)
		case ActionTurnZPos:
			turn(&live, params, mgl64.Vec3{0, 0, 1}, 1)
		case ActionTurnZNeg:
			turn(&live, params, mgl64.Vec3{0, 0, 1}, -1)
		}
	}
	return nil
}

// turn rotates the live pose about one of its local axes. Post-multiplying
// composes in local space, matching how a turtle experiences its turns.
func turn(live *Pose, params TurtleParams, axis mgl64.Vec3, sign float64) {
	angle := params.Angle
	if params.AngleJitter > 0 {
		angle += (randFloat(params.Rand)*2 - 1) * params.AngleJitter
	}
	live.Orientation = live.Orientation.Mul(mgl64.QuatRotate(sign*angle, axis)).Normalize()
}
