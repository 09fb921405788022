package race

import (
	"errors"
	"math/rand"
	"time"

	"github.com/deadloct/trot-race-bot/lib"
)

// RandomSource produces die rolls in [1, 6].
type RandomSource interface {
	Roll() (int, error)
}

// ErrRollsExhausted indicates a ScriptedDie has no rolls left.
var ErrRollsExhausted = errors.New("scripted rolls exhausted")

// CryptoDie rolls with crypto/rand.
type CryptoDie struct{}

func (CryptoDie) Roll() (int, error) {
	return lib.GetRandomInt(MinRoll, MaxRoll+1)
}

// SeededDie rolls reproducibly from a seed. It is not safe for concurrent use.
type SeededDie struct {
	seed int64
	rng  *rand.Rand
}

// NewSeededDie creates a die from seed. A seed of 0 is replaced with the
// current time; Seed reports the value actually used.
func NewSeededDie(seed int64) *SeededDie {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &SeededDie{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

func (d *SeededDie) Seed() int64 {
	return d.seed
}

func (d *SeededDie) Roll() (int, error) {
	return d.rng.Intn(MaxRoll) + MinRoll, nil
}

// ScriptedDie replays a fixed list of rolls in order.
type ScriptedDie struct {
	rolls []int
	next  int
}

func NewScriptedDie(rolls ...int) *ScriptedDie {
	return &ScriptedDie{rolls: rolls}
}

func (d *ScriptedDie) Roll() (int, error) {
	if d.next >= len(d.rolls) {
		return 0, ErrRollsExhausted
	}

	roll := d.rolls[d.next]
	d.next++
	return roll, nil
}

// Remaining is the number of rolls not yet used.
func (d *ScriptedDie) Remaining() int {
	return len(d.rolls) - d.next
}
