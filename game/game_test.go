package game

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/deadloct/trot-race-bot/data"
	"github.com/deadloct/trot-race-bot/lib"
	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/settings"
	log "github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.WarnLevel)
	settings.ImportData()
	os.Exit(m.Run())
}

type Fataler interface {
	Helper()
	Fatal(args ...any)
}

func sixes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 6
	}

	return out
}

func testNames(f Fataler) NameGenerator {
	f.Helper()
	jn, err := lib.NewJSONNames(data.NamesJSON)
	if err != nil {
		f.Fatal(err)
	}

	return jn
}

func testRunGame(f Fataler, cfg GameConfig) (*Game, *BufferSender) {
	f.Helper()

	sender := &BufferSender{}
	cfg.Sender = sender
	if cfg.RoundDelay == 0 {
		cfg.RoundDelay = time.Nanosecond
	}

	g, err := NewGame(cfg)
	if err != nil {
		f.Fatal(err)
	}

	if err := g.Start(context.Background()); err != nil {
		f.Fatal(err)
	}

	select {
	case <-g.Done():
	case <-time.After(10 * time.Second):
		f.Fatal("race did not end")
	}

	return g, sender
}

func TestGame_Run(t *testing.T) {
	tests := map[string]struct {
		Kind     race.Kind
		Entrants int
		Seed     int64
	}{
		"tierce with 12 horses": {Kind: race.Top3, Entrants: 12, Seed: 1},
		"quarte with 16 horses": {Kind: race.Top4, Entrants: 16, Seed: 2},
		"quinte with 20 horses": {Kind: race.Top5, Entrants: 20, Seed: 3},
		"quinte with 12 horses": {Kind: race.Top5, Entrants: 12, Seed: 4},
		"tierce with 20 horses": {Kind: race.Top3, Entrants: 20, Seed: 5},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			g, sender := testRunGame(t, GameConfig{
				ChannelID:    "123",
				EntrantCount: test.Entrants,
				Kind:         test.Kind,
				Names:        testNames(t),
				Source:       race.NewSeededDie(test.Seed),
				StartedBy:    "Hello",
			})

			messages := sender.Messages()
			if len(messages) < 2 {
				t.Fatalf("expected an intro and round updates but got %v messages", len(messages))
			}

			if !strings.Contains(messages[0], "is about to start") {
				t.Errorf("first message should be the intro: %v", messages[0])
			}

			switch g.State() {
			case Finished:
				if len(g.Results()) != test.Kind.Winners() {
					t.Fatalf("expected %v winners but got %v", test.Kind.Winners(), len(g.Results()))
				}

				if !strings.Contains(messages[len(messages)-1], "The race is over") {
					t.Errorf("last message should be the results: %v", messages[len(messages)-1])
				}
			case Dead:
				if len(g.Results()) >= test.Kind.Winners() {
					t.Fatalf("dead race should not have a full ranking")
				}
			default:
				t.Fatalf("unexpected state %v", g.State())
			}
		})
	}
}

func TestGame_DeadRace(t *testing.T) {
	// Every horse reaches top speed after four sixes and breaks stride on the fifth.
	g, sender := testRunGame(t, GameConfig{
		ChannelID:    "123",
		EntrantCount: 12,
		Kind:         race.Top3,
		Source:       race.NewScriptedDie(sixes(12 * 5)...),
	})

	if g.State() != Dead {
		t.Fatalf("expected a dead race but got %v", g.State())
	}

	messages := sender.Messages()
	if !strings.Contains(messages[len(messages)-1], "Too many horses were disqualified") {
		t.Errorf("unexpected last message: %v", messages[len(messages)-1])
	}
}

func TestGame_SourceError(t *testing.T) {
	g, sender := testRunGame(t, GameConfig{
		ChannelID:    "123",
		EntrantCount: 12,
		Kind:         race.Top3,
		Source:       race.NewScriptedDie(1, 2, 3),
	})

	if g.State() != Cancelled {
		t.Fatalf("expected a cancelled race but got %v", g.State())
	}

	messages := sender.Messages()
	if !strings.Contains(messages[len(messages)-1], "abandoned during round 1") {
		t.Errorf("unexpected last message: %v", messages[len(messages)-1])
	}
}

func TestGame_Cancel(t *testing.T) {
	g, err := NewGame(GameConfig{
		ChannelID:    "123",
		EntrantCount: 12,
		Kind:         race.Top3,
		RoundDelay:   time.Hour,
		Sender:       &BufferSender{},
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := g.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := g.Start(ctx); err == nil {
		t.Error("starting a race twice should fail")
	}

	cancel()
	<-g.Done()

	if g.State() != Cancelled {
		t.Fatalf("expected a cancelled race but got %v", g.State())
	}
}

func TestNewGame_InvalidConfiguration(t *testing.T) {
	tests := map[string]GameConfig{
		"too few horses":  {EntrantCount: 5, Kind: race.Top3},
		"too many horses": {EntrantCount: 21, Kind: race.Top3},
		"unknown kind":    {EntrantCount: 12},
	}

	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			cfg.Sender = &BufferSender{}
			if _, err := NewGame(cfg); !errors.Is(err, race.ErrInvalidConfiguration) {
				t.Errorf("expected invalid configuration but got %v", err)
			}
		})
	}
}

func TestManager_OneRacePerChannel(t *testing.T) {
	m := NewManager(nil)
	sender := &BufferSender{}
	cfg := GameConfig{
		ChannelID:    "123",
		EntrantCount: 12,
		Kind:         race.Top3,
		RoundDelay:   time.Hour,
		Sender:       sender,
	}

	g, err := m.StartGame(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.StartGame(cfg); err == nil {
		t.Fatal("expected second race in the same channel to fail")
	}

	other := cfg
	other.ChannelID = "456"
	if _, err := m.StartGame(other); err != nil {
		t.Fatalf("a different channel should be free: %v", err)
	}

	if !m.EndGame("123") {
		t.Fatal("expected a race to end")
	}

	<-g.Done()
	if !m.CanStart("123") {
		t.Error("channel should be free after cancelling")
	}

	if m.EndGame("123") {
		t.Error("no race should be left to end")
	}

	m.EndGame("456")
}

type slowSender struct {
	BufferSender
	delay time.Duration
}

func (s *slowSender) Send(str string) (*discordgo.Message, error) {
	time.Sleep(s.delay)
	return s.BufferSender.Send(str)
}

func TestManager_ConcurrentStartsInOneChannel(t *testing.T) {
	m := NewManager(nil)
	sender := &slowSender{delay: 20 * time.Millisecond}

	var (
		wg      sync.WaitGroup
		started []*Game
		mu      sync.Mutex
	)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := m.StartGame(GameConfig{
				ChannelID:    "123",
				EntrantCount: 12,
				Kind:         race.Top3,
				RoundDelay:   time.Hour,
				Sender:       sender,
			})
			if err != nil {
				return
			}

			mu.Lock()
			started = append(started, g)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(started) != 1 {
		t.Fatalf("expected exactly one race to start but got %v", len(started))
	}

	if !m.EndGame("123") {
		t.Fatal("expected a race to end")
	}

	select {
	case <-started[0].Done():
	case <-time.After(5 * time.Second):
		t.Fatal("race kept running after EndGame")
	}

	if started[0].State() != Cancelled {
		t.Errorf("expected a cancelled race but got %v", started[0].State())
	}
}

func TestManager_ReapsFinishedRace(t *testing.T) {
	m := NewManager(nil)
	g, err := m.StartGame(GameConfig{
		ChannelID:    "123",
		EntrantCount: 12,
		Kind:         race.Top3,
		RoundDelay:   time.Nanosecond,
		Sender:       &BufferSender{},
		Source:       race.NewSeededDie(11),
	})
	if err != nil {
		t.Fatal(err)
	}

	<-g.Done()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.Game("123"); !ok {
			return
		}

		time.Sleep(time.Millisecond)
	}

	t.Fatal("finished race was not removed from the manager")
}

func TestChunkLines(t *testing.T) {
	tests := map[string]struct {
		Input    string
		Limit    int
		Expected []string
	}{
		"fits": {
			Input:    "a\nb",
			Limit:    10,
			Expected: []string{"a\nb"},
		},
		"splits on lines": {
			Input:    "aaaa\nbbbb\ncccc",
			Limit:    9,
			Expected: []string{"aaaa\nbbbb", "cccc"},
		},
		"splits long line on words": {
			Input:    "aa bb cc\ndd",
			Limit:    5,
			Expected: []string{"aa bb", "cc", "dd"},
		},
		"cuts long word": {
			Input:    "abcdefgh",
			Limit:    3,
			Expected: []string{"abc", "def", "gh"},
		},
		"cuts long word on rune boundary": {
			Input:    "éééé",
			Limit:    3,
			Expected: []string{"é", "é", "é", "é"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			actual := chunkLines(test.Input, test.Limit)
			if strings.Join(actual, "|") != strings.Join(test.Expected, "|") {
				t.Errorf("expected %q to equal %q", actual, test.Expected)
			}

			for _, chunk := range actual {
				if !utf8.ValidString(chunk) {
					t.Errorf("chunk %q is not valid UTF-8", chunk)
				}

				if len(chunk) > test.Limit {
					t.Errorf("chunk %q is over the limit %v", chunk, test.Limit)
				}
			}
		})
	}
}

func BenchmarkGameDuration(b *testing.B) {
	tests := map[string]struct {
		Kind     race.Kind
		Entrants int
	}{
		"tierce, 12 horses": {Kind: race.Top3, Entrants: 12},
		"quinte, 20 horses": {Kind: race.Top5, Entrants: 20},
	}

	for name, test := range tests {
		b.Run(name, func(b *testing.B) {
			names := testNames(b)
			for i := 0; i < b.N; i++ {
				testRunGame(b, GameConfig{
					ChannelID:    "123",
					EntrantCount: test.Entrants,
					Kind:         test.Kind,
					Names:        names,
					Source:       race.NewSeededDie(int64(i + 1)),
				})
			}
		})
	}
}

type BufferSender struct {
	buffer []string
	sync.Mutex
}

func (b *BufferSender) Send(str string) (*discordgo.Message, error) {
	b.Lock()
	defer b.Unlock()
	b.buffer = append(b.buffer, str)
	return nil, nil
}

func (b *BufferSender) Messages() []string {
	b.Lock()
	defer b.Unlock()

	out := make([]string, len(b.buffer))
	copy(out, b.buffer)
	return out
}
