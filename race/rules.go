package race

import "fmt"

const (
	MinSpeed = 0
	MaxSpeed = 6

	MinRoll = 1
	MaxRoll = 6

	FinishLine = 2400
)

// Delta is the outcome of one cell of the transition table: either a speed
// shift or a disqualification.
type Delta struct {
	shift      int
	disqualify bool
}

func Shift(n int) Delta {
	return Delta{shift: n}
}

// Disqualify is the terminal table outcome.
var Disqualify = Delta{disqualify: true}

func (d Delta) IsDisqualify() bool {
	return d.disqualify
}

// Shift returns the speed change. It is 0 for Disqualify.
func (d Delta) Shift() int {
	if d.disqualify {
		return 0
	}

	return d.shift
}

func (d Delta) String() string {
	if d.disqualify {
		return "DQ"
	}

	return fmt.Sprintf("%+d", d.shift)
}

// Rules holds the lookup tables driving a race. A Rules value is never
// mutated after construction; races copy it on creation.
type Rules struct {
	// Transitions is indexed by [speed][roll-1].
	Transitions [MaxSpeed + 1][MaxRoll]Delta
	// Distances is indexed by speed.
	Distances  [MaxSpeed + 1]int
	FinishLine int
}

func DefaultRules() Rules {
	var (
		z  = Shift(0)
		p1 = Shift(1)
		p2 = Shift(2)
		m1 = Shift(-1)
		m2 = Shift(-2)
	)

	return Rules{
		Transitions: [MaxSpeed + 1][MaxRoll]Delta{
			{z, z, p1, p1, p1, p2},
			{z, z, p1, p1, p1, p2},
			{z, z, p1, p1, p1, p2},
			{m1, z, z, p1, p1, p1},
			{m1, z, z, z, p1, p1},
			{m2, m1, z, z, z, p1},
			{m2, m1, z, z, z, Disqualify},
		},
		Distances:  [MaxSpeed + 1]int{0, 23, 46, 69, 92, 115, 138},
		FinishLine: FinishLine,
	}
}

func (r Rules) Delta(speed, roll int) Delta {
	return r.Transitions[clamp(speed, MinSpeed, MaxSpeed)][roll-MinRoll]
}

// Step returns the entrant after one roll. It depends only on the entrant's
// own state and roll, so entrants can be stepped in any order. The roll must
// already be validated.
func (r Rules) Step(e Entrant, roll int) Entrant {
	if e.Disqualified {
		return e
	}

	delta := r.Delta(e.Speed, roll)
	if delta.IsDisqualify() {
		e.Disqualified = true
		return e
	}

	e.Speed = clamp(e.Speed+delta.Shift(), MinSpeed, MaxSpeed)
	e.Distance += r.Distances[e.Speed]
	return e
}

// validate rejects tables that would let an entrant move backwards or never
// reach the line.
func (r Rules) validate() error {
	if r.FinishLine <= 0 {
		return fmt.Errorf("%w: finish line must be positive", ErrInvalidConfiguration)
	}

	for speed, d := range r.Distances {
		if d < 0 {
			return fmt.Errorf("%w: distance %v at speed %v is negative", ErrInvalidConfiguration, d, speed)
		}

		if speed > 0 && d < r.Distances[speed-1] {
			return fmt.Errorf("%w: distance at speed %v is below speed %v", ErrInvalidConfiguration, speed, speed-1)
		}
	}

	return nil
}

func validRoll(roll int) bool {
	return roll >= MinRoll && roll <= MaxRoll
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
