// Package race implements the trot race engine: per-entrant speed state,
// distance accumulation, disqualification and winner ranking.
package race

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	MinEntrants = 12
	MaxEntrants = 20
)

// Config describes a race to create.
type Config struct {
	Kind         Kind
	EntrantCount int
	// Names are optional. When set there must be exactly EntrantCount unique,
	// non-empty names.
	Names []string
	// Rules defaults to DefaultRules.
	Rules *Rules
}

// Race owns the roster of one race. It is not safe for concurrent use.
type Race struct {
	kind     Kind
	rules    Rules
	entrants []Entrant
	winners  []int
	rounds   int
}

// New creates a race with every entrant at speed 0 and distance 0. It returns
// an error wrapping ErrInvalidConfiguration when cfg is rejected.
func New(cfg Config) (*Race, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rules := DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}

	entrants := make([]Entrant, cfg.EntrantCount)
	for i := range entrants {
		name := fmt.Sprintf("Horse %v", i+1)
		if len(cfg.Names) > 0 {
			name = cfg.Names[i]
		}

		entrants[i] = Entrant{ID: i, Name: name}
	}

	log.Debugf("created %v race with %v entrants", cfg.Kind, cfg.EntrantCount)
	return &Race{kind: cfg.Kind, rules: rules, entrants: entrants}, nil
}

func (c Config) validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: unknown race kind %v", ErrInvalidConfiguration, int(c.Kind))
	}

	if c.EntrantCount < MinEntrants || c.EntrantCount > MaxEntrants {
		return fmt.Errorf("%w: entrant count %v is outside [%v, %v]",
			ErrInvalidConfiguration, c.EntrantCount, MinEntrants, MaxEntrants)
	}

	if c.Rules != nil {
		if err := c.Rules.validate(); err != nil {
			return err
		}
	}

	if len(c.Names) == 0 {
		return nil
	}

	if len(c.Names) != c.EntrantCount {
		return fmt.Errorf("%w: got %v names for %v entrants", ErrInvalidConfiguration, len(c.Names), c.EntrantCount)
	}

	seen := make(map[string]struct{}, len(c.Names))
	for _, name := range c.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: entrant names must not be empty", ErrInvalidConfiguration)
		}

		if _, dupe := seen[name]; dupe {
			return fmt.Errorf("%w: duplicate entrant name %q", ErrInvalidConfiguration, name)
		}

		seen[name] = struct{}{}
	}

	return nil
}

// AdvanceRound rolls once for every active entrant in roster order and
// applies the results. All rolls are drawn before anything is mutated, so an
// error from src leaves the race untouched; source errors are returned as is.
func (r *Race) AdvanceRound(src RandomSource) error {
	if r.IsComplete() {
		return ErrRaceComplete
	}

	if r.IsDead() {
		return ErrDeadRace
	}

	type draw struct {
		id   int
		roll int
	}

	var draws []draw
	for _, e := range r.entrants {
		if !e.Active() {
			continue
		}

		roll, err := src.Roll()
		if err != nil {
			return err
		}

		if !validRoll(roll) {
			return fmt.Errorf("%w: got %v for %v", ErrInvalidRoll, roll, e.Name)
		}

		draws = append(draws, draw{id: e.ID, roll: roll})
	}

	round := r.rounds + 1
	var finished []Entrant
	for _, d := range draws {
		before := r.entrants[d.id]
		after := r.rules.Step(before, d.roll)
		log.Tracef("round %v: %v rolled %v (speed %v -> %v, distance %v -> %v)",
			round, after.Name, d.roll, before.Speed, after.Speed, before.Distance, after.Distance)

		if after.Disqualified {
			log.Debugf("round %v: %v disqualified at speed %v", round, after.Name, after.Speed)
		} else if after.Distance >= r.rules.FinishLine {
			after.FinishedRound = round
			finished = append(finished, after)
		}

		r.entrants[d.id] = after
	}

	// Simultaneous finishers beyond the required count cross the line but
	// take no place in the winner list.
	sortByDistance(finished)
	for _, e := range finished {
		log.Debugf("round %v: %v crossed the line with %v", round, e.Name, e.Distance)
		if len(r.winners) < r.kind.Winners() {
			r.winners = append(r.winners, e.ID)
		}
	}

	r.rounds = round
	return nil
}

// IsComplete reports whether the winner list holds the number of finishers
// the race kind requires.
func (r *Race) IsComplete() bool {
	return len(r.winners) >= r.kind.Winners()
}

// IsDead reports whether the race can never complete because the remaining
// active entrants cannot fill the winner list.
func (r *Race) IsDead() bool {
	if r.IsComplete() {
		return false
	}

	var active int
	for _, e := range r.entrants {
		if e.Active() {
			active++
		}
	}

	return len(r.winners)+active < r.kind.Winners()
}

// Standings returns every non-disqualified entrant, furthest first. Ties keep
// creation order.
func (r *Race) Standings() []Entrant {
	var out []Entrant
	for _, e := range r.entrants {
		if !e.Disqualified {
			out = append(out, e)
		}
	}

	sortByDistance(out)
	return out
}

// FinalResults is the prize ranking: the winners in finishing order, at most
// Kind.Winners() long.
func (r *Race) FinalResults() []Entrant {
	winners := r.Winners()
	if n := r.kind.Winners(); len(winners) > n {
		winners = winners[:n]
	}

	return winners
}

// Winners returns the finishers in the order they took a place.
func (r *Race) Winners() []Entrant {
	out := make([]Entrant, 0, len(r.winners))
	for _, id := range r.winners {
		out = append(out, r.entrants[id])
	}

	return out
}

// Entrants returns a copy of the roster in creation order.
func (r *Race) Entrants() []Entrant {
	out := make([]Entrant, len(r.entrants))
	copy(out, r.entrants)
	return out
}

// Entrant looks up one entrant by ID.
func (r *Race) Entrant(id int) (Entrant, bool) {
	if id < 0 || id >= len(r.entrants) {
		return Entrant{}, false
	}

	return r.entrants[id], true
}

// Kind is the ranking the race awards.
func (r *Race) Kind() Kind {
	return r.kind
}

// Rules returns the race's copy of its tables.
func (r *Race) Rules() Rules {
	return r.rules
}

// Rounds is the number of rounds played so far.
func (r *Race) Rounds() int {
	return r.rounds
}

// Run advances until the race completes. It stops early with ErrDeadRace,
// ErrRoundLimit (maxRounds > 0), a source error or the context's error.
func (r *Race) Run(ctx context.Context, src RandomSource, maxRounds int) error {
	for !r.IsComplete() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if maxRounds > 0 && r.rounds >= maxRounds {
			return fmt.Errorf("%w: %v rounds", ErrRoundLimit, maxRounds)
		}

		if err := r.AdvanceRound(src); err != nil {
			return err
		}
	}

	return nil
}

func sortByDistance(entrants []Entrant) {
	sort.SliceStable(entrants, func(i, j int) bool {
		if entrants[i].Distance != entrants[j].Distance {
			return entrants[i].Distance > entrants[j].Distance
		}

		return entrants[i].ID < entrants[j].ID
	})
}
