// Package console plays a race in the terminal: it prompts for the field
// size and race kind, then advances one round per Enter.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deadloct/trot-race-bot/lib"
	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/scoreboard"
	"github.com/deadloct/trot-race-bot/settings"
	log "github.com/sirupsen/logrus"
)

// ErrNoInput is returned when input ends before the race is set up.
var ErrNoInput = errors.New("input closed")

type NameGenerator interface {
	Pick(n int) ([]string, error)
}

type Config struct {
	In     io.Reader
	Out    io.Writer
	Source race.RandomSource
	// Names is optional; horses are numbered without it.
	Names NameGenerator
	// Auto plays every round without waiting for Enter.
	Auto bool
}

type Runner struct {
	Config
	scanner *bufio.Scanner
}

func NewRunner(cfg Config) *Runner {
	if cfg.Source == nil {
		cfg.Source = race.CryptoDie{}
	}

	return &Runner{Config: cfg, scanner: bufio.NewScanner(cfg.In)}
}

// Run sets up and plays one race. It returns the finished race, or the race
// so far alongside race.ErrDeadRace.
func (r *Runner) Run(ctx context.Context) (*race.Race, error) {
	fmt.Fprintln(r.Out, "Welcome to the harness trot race simulator!")

	count, err := r.askEntrants()
	if err != nil {
		return nil, err
	}

	kind, err := r.askKind()
	if err != nil {
		return nil, err
	}

	var names []string
	if r.Names != nil {
		if names, err = r.Names.Pick(count); err != nil {
			log.Warnf("could not pick horse names, falling back to numbers: %v", err)
			names = nil
		}
	}

	rc, err := race.New(race.Config{Kind: kind, EntrantCount: count, Names: names})
	if err != nil {
		return nil, err
	}

	log.Debugf("console race: %v with %v horses", kind, count)

	for !rc.IsComplete() {
		if err := ctx.Err(); err != nil {
			return rc, err
		}

		if !r.Auto {
			fmt.Fprint(r.Out, "Press Enter to play the next round...")
			// End of input switches to playing the rest of the race unattended.
			if !r.scanner.Scan() {
				r.Auto = true
				fmt.Fprintln(r.Out)
			}
		}

		before := rc.Entrants()
		if err := rc.AdvanceRound(r.Source); err != nil {
			return rc, err
		}

		fmt.Fprintf(r.Out, "\n%v\n\n", scoreboard.Round(rc, before, ""))

		if rc.IsDead() {
			fmt.Fprintf(r.Out, "%v\n", scoreboard.Dead(rc))
			return rc, race.ErrDeadRace
		}
	}

	fmt.Fprintf(r.Out, "The race is finished!\n%v\n", scoreboard.Results(rc, ""))
	return rc, nil
}

func (r *Runner) askEntrants() (int, error) {
	for {
		line, err := r.prompt(fmt.Sprintf("Number of horses (between %v and %v): ", race.MinEntrants, race.MaxEntrants))
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(r.Out, "Invalid input. Please enter a number.")
			continue
		}

		if n < race.MinEntrants || n > race.MaxEntrants {
			fmt.Fprintf(r.Out, "Invalid number. Please enter a number between %v and %v.\n", race.MinEntrants, race.MaxEntrants)
			continue
		}

		return n, nil
	}
}

func (r *Runner) askKind() (race.Kind, error) {
	question := fmt.Sprintf("Race kind (1 for %v, 2 for %v, 3 for %v): ",
		settings.KindLabel(race.Top3), settings.KindLabel(race.Top4), settings.KindLabel(race.Top5))

	for {
		line, err := r.prompt(question)
		if err != nil {
			return race.KindUnknown, err
		}

		kind, err := race.ParseKind(lib.Normalize(line))
		if err != nil {
			fmt.Fprintln(r.Out, "Invalid choice. Enter 1, 2 or 3, or the name of the race.")
			continue
		}

		return kind, nil
	}
}

func (r *Runner) prompt(question string) (string, error) {
	fmt.Fprint(r.Out, question)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}

		return "", ErrNoInput
	}

	return r.scanner.Text(), nil
}
