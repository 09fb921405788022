package game

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/deadloct/trot-race-bot/settings"
	log "github.com/sirupsen/logrus"
)

type Sender interface {
	Send(str string) (*discordgo.Message, error)
}

// DiscordSender posts block-quoted messages to one channel, splitting text
// that would exceed Discord's message limit.
type DiscordSender struct {
	channelID string
	session   *discordgo.Session
}

func NewDiscordSender(session *discordgo.Session, channelID string) *DiscordSender {
	return &DiscordSender{
		channelID: channelID,
		session:   session,
	}
}

func (s *DiscordSender) Send(str string) (*discordgo.Message, error) {
	var (
		msg  *discordgo.Message
		errs []error
	)

	for _, chunk := range chunkLines(quote(str), settings.DiscordMaxMessageLength) {
		log.Tracef("sending message of length %v", len(chunk))
		m, err := s.session.ChannelMessageSend(s.channelID, chunk)
		if err != nil {
			log.Errorf("error sending message of length %v: %v", len(chunk), err)
			errs = append(errs, err)
			continue
		}

		msg = m
	}

	return msg, errors.Join(errs...)
}

// chunkLines packs lines into payloads no longer than limit. A single line
// over the limit is split on word boundaries, and a single word over the
// limit is cut on a rune boundary.
func chunkLines(str string, limit int) []string {
	var (
		chunks  []string
		payload string
	)

	flush := func() {
		if payload != "" {
			chunks = append(chunks, payload)
			payload = ""
		}
	}

	add := func(piece, sep string) {
		if payload != "" && len(payload)+len(sep)+len(piece) > limit {
			flush()
		}

		if payload == "" {
			payload = piece
		} else {
			payload += sep + piece
		}
	}

	for _, line := range strings.Split(str, "\n") {
		if len(line) <= limit {
			add(line, "\n")
			continue
		}

		flush()
		for _, word := range strings.Fields(line) {
			for len(word) > limit {
				flush()
				cut := runeCut(word, limit)
				chunks = append(chunks, word[:cut])
				word = word[cut:]
			}

			add(word, " ")
		}
		flush()
	}

	flush()
	return chunks
}

// runeCut returns the largest offset <= limit that does not split a rune.
// It never returns 0 so the caller always makes progress.
func runeCut(word string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(word[cut]) {
		cut--
	}

	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(word)
	}

	return cut
}

func quote(str string) string {
	lines := strings.Split(str, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}

	return strings.Join(lines, "\n")
}
