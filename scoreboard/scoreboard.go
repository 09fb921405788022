// Package scoreboard renders race state as text for the console and Discord.
package scoreboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/deadloct/trot-race-bot/race"
)

// RoundDuration is the simulated time one round represents.
const RoundDuration = 10 * time.Second

func EntrantLine(e race.Entrant) string {
	if e.Disqualified {
		return fmt.Sprintf("%v (DQ)", e.Name)
	}

	return fmt.Sprintf("%v: Speed %v, Distance %v", e.Name, e.Speed, e.Distance)
}

// Elapsed formats the simulated time after the given number of rounds.
func Elapsed(rounds int) string {
	seconds := int((time.Duration(rounds) * RoundDuration).Seconds())
	return fmt.Sprintf("%vm %vs", seconds/60, seconds%60)
}

// Standings lists the leading entrants, at most limit of them (all when
// limit <= 0).
func Standings(r *race.Race, limit int) []string {
	standings := r.Standings()
	if limit > 0 && len(standings) > limit {
		standings = standings[:limit]
	}

	lines := make([]string, 0, len(standings))
	for i, e := range standings {
		lines = append(lines, fmt.Sprintf("%v. %v", i+1, EntrantLine(e)))
	}

	return lines
}

// NewlyDisqualified returns entrants disqualified since before was taken.
func NewlyDisqualified(before, after []race.Entrant) []race.Entrant {
	var out []race.Entrant
	for i, e := range after {
		if e.Disqualified && (i >= len(before) || !before[i].Disqualified) {
			out = append(out, e)
		}
	}

	return out
}

// NewlyFinished returns winners that were not winners in before.
func NewlyFinished(before []race.Entrant, r *race.Race) []race.Entrant {
	var out []race.Entrant
	for _, w := range r.Winners() {
		if w.ID >= len(before) || !before[w.ID].Finished() {
			out = append(out, w)
		}
	}

	return out
}

// Round is the per-round report: elapsed time, incidents and the leaders.
func Round(r *race.Race, before []race.Entrant, marker string) string {
	lines := []string{fmt.Sprintf("Round %v, elapsed time: %v", r.Rounds(), Elapsed(r.Rounds()))}

	for _, e := range NewlyDisqualified(before, r.Entrants()) {
		lines = append(lines, fmt.Sprintf("%v broke stride and is disqualified.", e.Name))
	}

	for _, e := range NewlyFinished(before, r) {
		lines = append(lines, fmt.Sprintf("%v crosses the line!", e.Name))
	}

	lines = append(lines, "", "Current standings:")
	for _, line := range Standings(r, r.Kind().Winners()) {
		lines = append(lines, strings.TrimSpace(marker+" "+line))
	}

	return strings.Join(lines, "\n")
}

// Results is the final prize ranking.
func Results(r *race.Race, marker string) string {
	lines := []string{fmt.Sprintf("The race is over after %v (%v rounds).", Elapsed(r.Rounds()), r.Rounds())}
	for i, e := range r.FinalResults() {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%v %v. %v (%vm)", marker, i+1, e.Name, e.Distance)))
	}

	return strings.Join(lines, "\n")
}

// Dead explains why a race ended without a full ranking.
func Dead(r *race.Race) string {
	lines := []string{fmt.Sprintf(
		"Too many horses were disqualified: only %v of %v places could be filled after %v.",
		len(r.Winners()), r.Kind().Winners(), Elapsed(r.Rounds()),
	)}

	for i, e := range r.Winners() {
		lines = append(lines, fmt.Sprintf("%v. %v (%vm)", i+1, e.Name, e.Distance))
	}

	return strings.Join(lines, "\n")
}
