package settings

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/deadloct/trot-race-bot/data"
	"github.com/deadloct/trot-race-bot/lib"
	"github.com/deadloct/trot-race-bot/race"
	log "github.com/sirupsen/logrus"
)

const (
	ModeDiscord = "discord"
	ModeConsole = "console"

	// Seconds
	DefaultRoundDelay = 3
	MinimumRoundDelay = 1
	MaximumRoundDelay = 60

	DefaultEntrants = race.MinEntrants
	DefaultKind     = race.Top3

	DiscordMaxMessageLength = 2000

	WhiteSpaceChar = "\u200b"
	Separator      = "_,.-'~'-.,__,.-'~'-.,_"
)

var (
	Intro *template.Template
	Help  string
)

type Config struct {
	Env        string        `env:"ENV" envDefault:"development"`
	Token      string        `env:"TOKEN"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
	Mode       string        `env:"MODE" envDefault:"discord"`
	Seed       int64         `env:"SEED"`
	RoundDelay time.Duration `env:"ROUND_DELAY" envDefault:"3s"`
	Entrants   int           `env:"ENTRANTS" envDefault:"12"`
	Kind       string        `env:"KIND" envDefault:"tierce"`

	HorseEmoji  EmojiInfo `envPrefix:"HORSE_EMOJI_"`
	FinishEmoji EmojiInfo `envPrefix:"FINISH_EMOJI_"`
}

type IntroValues struct {
	Entrants   int
	FinishLine int
	Kind       string
	RoundDelay time.Duration
	Runners    string
	StartedBy  string
	Winners    int
}

type HelpValues struct {
	DefaultEntrants int
	DefaultKind     string
	FinishLine      int
	MaxEntrants     int
	MaxRoundDelay   int
	MinEntrants     int
	MinRoundDelay   int
}

// Load reads .env files and the environment into a validated Config.
func Load() (Config, error) {
	LoadEnvFiles()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeDiscord:
		if c.Token == "" {
			errs = append(errs, fmt.Errorf("%v is required in %v mode", EnvKey("TOKEN"), ModeDiscord))
		}
	case ModeConsole:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	lo := time.Duration(MinimumRoundDelay) * time.Second
	hi := time.Duration(MaximumRoundDelay) * time.Second
	if c.RoundDelay < lo || c.RoundDelay > hi {
		errs = append(errs, fmt.Errorf("round delay %v is outside [%v, %v]", c.RoundDelay, lo, hi))
	}

	if c.Entrants < race.MinEntrants || c.Entrants > race.MaxEntrants {
		errs = append(errs, fmt.Errorf("entrants %v is outside [%v, %v]", c.Entrants, race.MinEntrants, race.MaxEntrants))
	}

	if _, err := c.RaceKind(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c Config) RaceKind() (race.Kind, error) {
	return race.ParseKind(lib.Normalize(c.Kind))
}

func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}

	return level
}

func ImportData() {
	importIntro()
	importHelp()
}

func importIntro() {
	var err error
	Intro, err = template.New("intro-template").Parse(data.IntroTemplate)
	if err != nil {
		log.Panicf("unable to parse intro template '%v': %v", data.IntroTemplate, err)
	}

	log.Info("imported intro template")
}

func importHelp() {
	tmpl, err := template.New("help-template").Parse(data.HelpTemplate)
	if err != nil {
		log.Panicf("unable to parse help template '%v': %v", data.HelpTemplate, err)
	}

	var result strings.Builder
	err = tmpl.Execute(&result, HelpValues{
		DefaultEntrants: DefaultEntrants,
		DefaultKind:     KindLabel(DefaultKind),
		FinishLine:      race.FinishLine,
		MaxEntrants:     race.MaxEntrants,
		MaxRoundDelay:   MaximumRoundDelay,
		MinEntrants:     race.MinEntrants,
		MinRoundDelay:   MinimumRoundDelay,
	})
	if err != nil {
		log.Panicf("unable to execute help template: %v", err)
	}

	Help = result.String()
	log.Info("imported help file")
}

// KindLabel is the display name of a race kind.
func KindLabel(k race.Kind) string {
	switch k {
	case race.Top3:
		return "Tiercé"
	case race.Top4:
		return "Quarté"
	case race.Top5:
		return "Quinté"
	default:
		return "Unknown"
	}
}
