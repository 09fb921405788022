package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/deadloct/trot-race-bot/cmd"
	"github.com/deadloct/trot-race-bot/console"
	"github.com/deadloct/trot-race-bot/data"
	"github.com/deadloct/trot-race-bot/lib"
	"github.com/deadloct/trot-race-bot/race"
	"github.com/deadloct/trot-race-bot/settings"
	log "github.com/sirupsen/logrus"
)

func main() {
	consoleFlag := flag.Bool("console", false, "play a race in the terminal instead of running the Discord bot")
	autoFlag := flag.Bool("auto", false, "in console mode, play every round without waiting for Enter")
	flag.Parse()

	if *consoleFlag {
		os.Setenv(settings.EnvKey("MODE"), settings.ModeConsole)
	}

	cfg, err := settings.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.SetLevel(cfg.Level())
	settings.ImportData()

	newSource := func() race.RandomSource { return race.CryptoDie{} }
	if cfg.Seed != 0 {
		// Every race replays the same rolls.
		log.Infof("using seeded die %v", cfg.Seed)
		newSource = func() race.RandomSource { return race.NewSeededDie(cfg.Seed) }
	}

	if cfg.Mode == settings.ModeConsole {
		runConsole(newSource(), *autoFlag)
		return
	}

	runDiscord(cfg, newSource)
}

func runConsole(source race.RandomSource, auto bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := console.NewRunner(console.Config{
		In:     os.Stdin,
		Out:    os.Stdout,
		Source: source,
		Auto:   auto,
	})

	if names, err := lib.NewJSONNames(data.NamesJSON); err != nil {
		log.Warnf("unable to load horse names: %v", err)
	} else {
		runner.Names = names
	}

	if _, err := runner.Run(ctx); err != nil && !errors.Is(err, race.ErrDeadRace) {
		log.Fatal(err)
	}
}

func runDiscord(cfg settings.Config, newSource cmd.SourceFactory) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Panic(err)
	}

	manager := cmd.NewManager(cfg, data.NamesJSON, newSource)

	session.Identify.Intents = discordgo.IntentGuildMessages
	session.AddHandler(manager.CommandHandler)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Infof("logged in as %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	if err := session.Open(); err != nil {
		log.Panic(err)
	}
	defer session.Close()

	if err := manager.RegisterCommands(session); err != nil {
		log.Panic(err)
	}

	log.Info("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info("Bot exiting...")
	if err := manager.DeregisterCommands(session); err != nil {
		log.Warnf("failed to deregister commands: %v", err)
	}
}
