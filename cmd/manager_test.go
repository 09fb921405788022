package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/settings"
)

func intOption(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func stringOption(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: v,
	}
}

func TestManager_parseStartOptions(t *testing.T) {
	m := NewManager(settings.Config{
		Entrants:   14,
		Kind:       "quarte",
		RoundDelay: 5 * time.Second,
	}, nil, nil)

	tests := map[string]struct {
		Options  []*discordgo.ApplicationCommandInteractionDataOption
		Expected startOptions
		Problems int
	}{
		"defaults from config": {
			Expected: startOptions{Entrants: 14, Kind: race.Top4, RoundDelay: 5 * time.Second},
		},
		"all options": {
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				intOption(CommandStartOptionEntrants, 20),
				stringOption(CommandStartOptionKind, "Quinté"),
				intOption(CommandStartOptionRoundDelay, 2),
			},
			Expected: startOptions{Entrants: 20, Kind: race.Top5, RoundDelay: 2 * time.Second},
		},
		"too few horses is reported": {
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				intOption(CommandStartOptionEntrants, 11),
			},
			Expected: startOptions{Entrants: 14, Kind: race.Top4, RoundDelay: 5 * time.Second},
			Problems: 1,
		},
		"every bad option is reported": {
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				intOption(CommandStartOptionEntrants, 40),
				stringOption(CommandStartOptionKind, "trifecta"),
				intOption(CommandStartOptionRoundDelay, 0),
			},
			Expected: startOptions{Entrants: 14, Kind: race.Top4, RoundDelay: 5 * time.Second},
			Problems: 3,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			opts, problems := m.parseStartOptions(test.Options)
			if len(problems) != test.Problems {
				t.Fatalf("expected %v problems but got %v: %v", test.Problems, len(problems), strings.Join(problems, "; "))
			}

			if opts != test.Expected {
				t.Errorf("expected %+v to equal %+v", opts, test.Expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]struct {
		Member   *discordgo.Member
		Expected string
	}{
		"nick":        {Member: &discordgo.Member{Nick: "nick", User: &discordgo.User{Username: "user"}}, Expected: "nick"},
		"global name": {Member: &discordgo.Member{User: &discordgo.User{Username: "user", GlobalName: "Global"}}, Expected: "Global"},
		"username":    {Member: &discordgo.Member{User: &discordgo.User{Username: "user"}}, Expected: "user"},
		"nil":         {Expected: "unknown"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if actual := DisplayName(test.Member); actual != test.Expected {
				t.Errorf("expected '%v' to equal '%v'", actual, test.Expected)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	seen := make(map[string]struct{})
	for _, c := range commands {
		if !strings.HasPrefix(c.Name, CommandPrefix) {
			t.Errorf("command %v is missing the %v prefix", c.Name, CommandPrefix)
		}

		if _, ok := seen[c.Name]; ok {
			t.Errorf("command %v registered twice", c.Name)
		}

		seen[c.Name] = struct{}{}
	}
}
