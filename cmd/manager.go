package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/deadloct/trot-race-bot/game"
	"github.com/deadloct/trot-race-bot/lib"
	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/settings"
	log "github.com/sirupsen/logrus"
)

const (
	CommandPrefix                = "trot-"
	CommandHelp                  = CommandPrefix + "help"
	CommandStart                 = CommandPrefix + "start"
	CommandStartOptionEntrants   = "entrants"
	CommandStartOptionKind       = "kind"
	CommandStartOptionRoundDelay = "round-delay"
	CommandCancel                = CommandPrefix + "cancel"
)

var (
	minEntrants   float64 = race.MinEntrants
	minRoundDelay float64 = settings.MinimumRoundDelay
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        CommandHelp,
		Description: "Explains how to use this bot",
	},
	{
		Name:        CommandStart,
		Description: "Starts a trot race in this channel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type: discordgo.ApplicationCommandOptionInteger,
				Name: CommandStartOptionEntrants,
				Description: fmt.Sprintf(
					"Number of horses. Default: %v, Min: %v, Max: %v",
					settings.DefaultEntrants, race.MinEntrants, race.MaxEntrants),
				Required: false,
				MinValue: &minEntrants,
				MaxValue: race.MaxEntrants,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        CommandStartOptionKind,
				Description: fmt.Sprintf("How many finishers make the ranking. Default: %v", settings.KindLabel(settings.DefaultKind)),
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Tiercé (top 3)", Value: race.Top3.String()},
					{Name: "Quarté (top 4)", Value: race.Top4.String()},
					{Name: "Quinté (top 5)", Value: race.Top5.String()},
				},
			},
			{
				Type: discordgo.ApplicationCommandOptionInteger,
				Name: CommandStartOptionRoundDelay,
				Description: fmt.Sprintf(
					"Seconds between rounds. Min: %v, Max: %v",
					settings.MinimumRoundDelay, settings.MaximumRoundDelay),
				Required: false,
				MinValue: &minRoundDelay,
				MaxValue: settings.MaximumRoundDelay,
			},
		},
	},
	{
		Name:        CommandCancel,
		Description: "Cancel the race running in this channel",
	},
}

// SourceFactory returns the die for a new race.
type SourceFactory func() race.RandomSource

type Manager struct {
	config    settings.Config
	nameData  []byte
	newSource SourceFactory
}

func NewManager(config settings.Config, nameData []byte, newSource SourceFactory) *Manager {
	if newSource == nil {
		newSource = func() race.RandomSource { return race.CryptoDie{} }
	}

	return &Manager{config: config, nameData: nameData, newSource: newSource}
}

func (m *Manager) RegisterCommands(session *discordgo.Session) error {
	log.Info("registering commands")

	for _, v := range commands {
		if _, err := session.ApplicationCommandCreate(session.State.User.ID, "", v); err != nil {
			log.Errorf("error creating command %v: %v", v.Name, err)
			return err
		}

		log.Infof("registered command %v", v.Name)
	}

	log.Info("finished registering commands")

	return nil
}

func (m *Manager) DeregisterCommands(session *discordgo.Session) error {
	existingCommands, err := session.ApplicationCommands(session.State.User.ID, "")
	if err != nil {
		log.Errorf("could not retrieve existing commands: %v", err)
		return err
	}

	log.Info("deregistering commands")

	for _, v := range existingCommands {
		if err := session.ApplicationCommandDelete(session.State.User.ID, "", v.ID); err != nil {
			log.Infof("failed to deregister command %v: %v", v.Name, err)
			continue
		}

		log.Infof("deregistered command %v", v.Name)
	}

	log.Info("finished deregistering commands")
	return nil
}

func (m *Manager) CommandHandler(session *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if ic.Member == nil {
		log.Infof("user attempted to run the bot from outside a channel: %v", ic.User.ID)
		m.respond(session, ic, "Races can only be started from a server channel.")
		return
	}

	data := ic.ApplicationCommandData()
	startedBy := DisplayName(ic.Member)
	log.Infof("%v issued command %v", startedBy, data.Name)

	switch data.Name {
	case CommandHelp:
		m.respond(session, ic, settings.Help)

	case CommandStart:
		opts, problems := m.parseStartOptions(data.Options)
		if len(problems) > 0 {
			msg := "> The race was not started:\n> " + strings.Join(problems, "\n> ")
			log.Warn(msg)
			m.respond(session, ic, msg)
			return
		}

		m.respond(session, ic, fmt.Sprintf("> Horses are heading to the start of the %v.", settings.KindLabel(opts.Kind)))

		var names game.NameGenerator
		if jn, err := lib.NewJSONNames(m.nameData); err != nil {
			log.Warnf("unable to load horse names: %v", err)
		} else {
			names = jn
		}

		_, err := game.ManagerInstance(session).StartGame(game.GameConfig{
			ChannelID:    ic.ChannelID,
			EntrantCount: opts.Entrants,
			Kind:         opts.Kind,
			RoundDelay:   opts.RoundDelay,
			Names:        names,
			Source:       m.newSource(),
			StartedBy:    startedBy,
			HorseEmoji:   m.config.HorseEmoji.Or(":horse_racing:"),
			FinishEmoji:  m.config.FinishEmoji.Or(":checkered_flag:"),
		})
		if err != nil {
			log.Errorf("error starting race: %v", err)
		}

	case CommandCancel:
		if game.ManagerInstance(session).EndGame(ic.ChannelID) {
			m.respond(session, ic, "> The stewards have stopped the race.")
		} else {
			m.respond(session, ic, "> There is no race running in this channel.")
		}
	}
}

type startOptions struct {
	Entrants   int
	Kind       race.Kind
	RoundDelay time.Duration
}

// parseStartOptions applies the command options over the configured defaults.
// Invalid values are reported rather than clamped.
func (m *Manager) parseStartOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (startOptions, []string) {
	opts := startOptions{
		Entrants:   m.config.Entrants,
		RoundDelay: m.config.RoundDelay,
	}

	var problems []string
	kind, err := m.config.RaceKind()
	if err != nil {
		kind = settings.DefaultKind
	}
	opts.Kind = kind

	for _, option := range options {
		switch option.Name {
		case CommandStartOptionEntrants:
			v := int(option.IntValue())
			if v < race.MinEntrants || v > race.MaxEntrants {
				problems = append(problems, fmt.Sprintf(
					"%v horses is not allowed, choose between %v and %v.", v, race.MinEntrants, race.MaxEntrants))
				continue
			}

			opts.Entrants = v

		case CommandStartOptionKind:
			k, err := race.ParseKind(lib.Normalize(option.StringValue()))
			if err != nil {
				problems = append(problems, fmt.Sprintf("%q is not a race kind.", option.StringValue()))
				continue
			}

			opts.Kind = k

		case CommandStartOptionRoundDelay:
			v := int(option.IntValue())
			if v < settings.MinimumRoundDelay || v > settings.MaximumRoundDelay {
				problems = append(problems, fmt.Sprintf(
					"A round delay of %v seconds is not allowed, choose between %v and %v.",
					v, settings.MinimumRoundDelay, settings.MaximumRoundDelay))
				continue
			}

			opts.RoundDelay = time.Duration(v) * time.Second
		}
	}

	return opts, problems
}

func (m *Manager) respond(session *discordgo.Session, ic *discordgo.InteractionCreate, content string) {
	err := session.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Errorf("error responding to interaction: %v", err)
	}
}

func DisplayName(member *discordgo.Member) string {
	if member == nil {
		return "unknown"
	}

	if member.Nick != "" {
		return member.Nick
	}

	if member.User != nil {
		if member.User.GlobalName != "" {
			return member.User.GlobalName
		}

		return member.User.Username
	}

	return "unknown"
}
