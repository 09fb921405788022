package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type RunningGame struct {
	Game   *Game
	Cancel context.CancelFunc
}

type Manager struct {
	games   map[string]*RunningGame // maps channel ID to games; one allowed per channel at a time
	session *discordgo.Session
	sync.Mutex
}

var (
	managerSingleton     *Manager
	managerSingletonOnce sync.Once
)

func ManagerInstance(session *discordgo.Session) *Manager {
	managerSingletonOnce.Do(func() {
		managerSingleton = NewManager(session)
	})

	return managerSingleton
}

func NewManager(session *discordgo.Session) *Manager {
	return &Manager{
		games:   make(map[string]*RunningGame),
		session: session,
	}
}

// StartGame creates and starts a race in cfg.ChannelID. A Discord sender is
// used when cfg.Sender is nil. The channel is reserved before the intro is
// sent, so concurrent calls for one channel start at most one race.
func (m *Manager) StartGame(cfg GameConfig) (*Game, error) {
	if cfg.Sender == nil {
		cfg.Sender = NewDiscordSender(m.session, cfg.ChannelID)
	}

	g, err := NewGame(cfg)
	if err != nil {
		log.Errorf("invalid race configuration: %v", err)
		cfg.Sender.Send(fmt.Sprintf("The race could not be set up: %v", err))
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if !m.reserve(cfg.ChannelID, &RunningGame{Game: g, Cancel: cancel}) {
		cancel()
		log.Errorf("race already running in channel %v", cfg.ChannelID)
		cfg.Sender.Send("There is already a race running in this channel, please wait for it to finish or cancel it first.")
		return nil, fmt.Errorf("race already exists in channel %s", cfg.ChannelID)
	}

	if err := g.Start(ctx); err != nil {
		log.Errorf("error starting race: %v", err)
		cfg.Sender.Send("There was an unexpected error starting the race.")
		m.release(cfg.ChannelID, g)
		return nil, err
	}

	log.Infof("started race %v in channel %v", g.ID, cfg.ChannelID)
	go m.reap(cfg.ChannelID, g)
	return g, nil
}

// reserve claims channel for rg unless a running race already holds it.
func (m *Manager) reserve(channel string, rg *RunningGame) bool {
	m.Lock()
	defer m.Unlock()

	if existing, ok := m.games[channel]; ok && existing.Game.IsRunning() {
		return false
	}

	m.games[channel] = rg
	return true
}

// release cancels g and frees channel if g still holds it.
func (m *Manager) release(channel string, g *Game) {
	m.Lock()
	defer m.Unlock()

	if rg, ok := m.games[channel]; ok && rg.Game == g {
		rg.Cancel()
		delete(m.games, channel)
	}
}

// EndGame cancels the race in channel. It reports whether there was one.
func (m *Manager) EndGame(channel string) bool {
	m.Lock()
	defer m.Unlock()

	rg, exists := m.games[channel]
	if !exists {
		return false
	}

	log.Infof("ending race %v in channel %v", rg.Game.ID, channel)
	rg.Cancel()
	delete(m.games, channel)
	return true
}

func (m *Manager) CanStart(channel string) bool {
	m.Lock()
	defer m.Unlock()

	if rg, exists := m.games[channel]; exists && rg.Game.IsRunning() {
		return false
	}

	return true
}

func (m *Manager) Game(channel string) (*Game, bool) {
	m.Lock()
	defer m.Unlock()

	rg, ok := m.games[channel]
	if !ok {
		return nil, false
	}

	return rg.Game, true
}

// reap drops a finished race so the channel can host the next one.
func (m *Manager) reap(channel string, g *Game) {
	<-g.Done()

	log.Debugf("race %v in channel %v ended as %v", g.ID, channel, g.State())
	m.release(channel, g)
}
