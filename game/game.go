package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/scoreboard"
	"github.com/deadloct/trot-race-bot/settings"
	"github.com/segmentio/ksuid"
	log "github.com/sirupsen/logrus"
)

type GameState int

const (
	NotStarted GameState = iota
	Started
	Finished
	Cancelled
	Dead
)

func (s GameState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Started:
		return "started"
	case Finished:
		return "finished"
	case Cancelled:
		return "cancelled"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// NameGenerator supplies n distinct horse names for a race.
type NameGenerator interface {
	Pick(n int) ([]string, error)
}

// GameConfig describes one race to play in a channel.
type GameConfig struct {
	ChannelID    string
	EntrantCount int
	Kind         race.Kind
	RoundDelay   time.Duration
	Names        NameGenerator     // optional, horses are numbered without it
	Source       race.RandomSource // defaults to race.CryptoDie
	Sender       Sender
	StartedBy    string
	HorseEmoji   string
	FinishEmoji  string
}

// Game is one race played out in a Discord channel.
type Game struct {
	GameConfig

	ID string

	race  *race.Race
	state GameState
	done  chan struct{}

	sync.Mutex
}

// NewGame builds a race from cfg without starting it. Configuration errors
// from the race package wrap race.ErrInvalidConfiguration.
func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.RoundDelay == 0 {
		cfg.RoundDelay = settings.DefaultRoundDelay * time.Second
	}

	if cfg.Source == nil {
		cfg.Source = race.CryptoDie{}
	}

	var names []string
	if cfg.Names != nil {
		var err error
		if names, err = cfg.Names.Pick(cfg.EntrantCount); err != nil {
			log.Warnf("could not pick horse names, falling back to numbers: %v", err)
			names = nil
		}
	}

	r, err := race.New(race.Config{
		Kind:         cfg.Kind,
		EntrantCount: cfg.EntrantCount,
		Names:        names,
	})
	if err != nil {
		return nil, err
	}

	return &Game{
		GameConfig: cfg,
		ID:         ksuid.New().String(),
		race:       r,
		done:       make(chan struct{}),
	}, nil
}

// Start announces the race and plays it in the background until it ends or
// ctx is cancelled.
func (g *Game) Start(ctx context.Context) error {
	g.Lock()
	if g.state != NotStarted {
		g.Unlock()
		return fmt.Errorf("race %v already %v", g.ID, g.state)
	}
	g.state = Started
	g.Unlock()

	intro, err := g.getIntro()
	if err != nil {
		g.setState(Cancelled)
		close(g.done)
		return err
	}

	g.logMessage(log.DebugLevel, "sending intro")
	if _, err := g.Sender.Send(intro); err != nil {
		g.setState(Cancelled)
		close(g.done)
		return err
	}

	go g.run(ctx)
	return nil
}

func (g *Game) State() GameState {
	g.Lock()
	defer g.Unlock()

	return g.state
}

func (g *Game) IsRunning() bool {
	s := g.State()
	return s == NotStarted || s == Started
}

// Done is closed once the race has stopped for any reason.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

func (g *Game) Results() []race.Entrant {
	g.Lock()
	defer g.Unlock()

	return g.race.FinalResults()
}

func (g *Game) getIntro() (string, error) {
	var runners []string
	for _, e := range g.race.Entrants() {
		runners = append(runners, e.Name)
	}

	var result strings.Builder
	err := settings.Intro.Execute(&result, settings.IntroValues{
		Entrants:   g.EntrantCount,
		FinishLine: g.race.Rules().FinishLine,
		Kind:       settings.KindLabel(g.Kind),
		RoundDelay: g.RoundDelay,
		Runners:    strings.Join(runners, ", "),
		StartedBy:  g.StartedBy,
		Winners:    g.Kind.Winners(),
	})
	if err != nil {
		return "", err
	}

	return result.String(), nil
}

func (g *Game) run(ctx context.Context) {
	defer close(g.done)
	g.logMessage(log.InfoLevel, "starting %v race with %v horses", g.Kind, g.EntrantCount)

	for {
		select {
		case <-ctx.Done():
			g.logMessage(log.InfoLevel, "context done, cancelling race after round %v", g.race.Rounds())
			g.setState(Cancelled)
			return
		case <-time.After(g.RoundDelay):
		}

		g.Lock()
		before := g.race.Entrants()
		err := g.race.AdvanceRound(g.Source)
		g.Unlock()

		switch {
		case errors.Is(err, race.ErrDeadRace):
			g.finishDead()
			return
		case err != nil:
			g.logMessage(log.ErrorLevel, "failed to run round %v: %v", g.race.Rounds()+1, err)
			g.send(fmt.Sprintf("The race was abandoned during round %v.", g.race.Rounds()+1))
			g.setState(Cancelled)
			return
		}

		g.logMessage(log.DebugLevel, "round %v played, %v winner(s)", g.race.Rounds(), len(g.race.Winners()))

		select {
		case <-ctx.Done():
		default:
			g.send(scoreboard.Round(g.race, before, g.HorseEmoji))
		}

		if g.race.IsComplete() {
			g.finish()
			return
		}

		if g.race.IsDead() {
			g.finishDead()
			return
		}
	}
}

func (g *Game) finish() {
	var names []string
	for _, e := range g.race.FinalResults() {
		names = append(names, e.Name)
	}

	g.logMessage(log.InfoLevel, "winners: %v", strings.Join(names, ", "))
	g.send(strings.Join([]string{
		settings.Separator,
		scoreboard.Results(g.race, g.FinishEmoji),
		settings.Separator,
	}, "\n"))
	g.setState(Finished)
}

func (g *Game) finishDead() {
	g.logMessage(log.WarnLevel, "race can no longer fill %v places", g.Kind.Winners())
	g.send(scoreboard.Dead(g.race))
	g.setState(Dead)
}

func (g *Game) setState(s GameState) {
	g.Lock()
	defer g.Unlock()

	g.state = s
}

func (g *Game) send(str string) {
	if _, err := g.Sender.Send(str); err != nil {
		g.logMessage(log.WarnLevel, "failed to send message: %v", err)
	}
}

func (g *Game) logMessage(level log.Level, msg string, args ...interface{}) {
	log.WithFields(log.Fields{
		"race":    g.ID,
		"channel": g.ChannelID,
	}).Logf(level, msg, args...)
}
